package production

import (
	"encoding/json"
	"testing"
)

func TestIsTBD(t *testing.T) {
	cases := map[string]bool{
		"":            true,
		"TBD":         true,
		"tbd":         true,
		"  TBD  ":     true,
		"Venice":      false,
		"TBD - 10":    false,
		"Ocean Front": false,
	}
	for in, want := range cases {
		if got := IsTBD(in); got != want {
			t.Fatalf("IsTBD(%q): want %v, got %v", in, want, got)
		}
	}
}

func TestValidShootDate(t *testing.T) {
	cases := map[string]bool{
		"2026-01-20":       true,
		"TBD":              false,
		"":                 false,
		"TBD - October":    false,
		"October 2025":     false,
		"2026-13-45":       false,
		"2026-1-2":         false,
		"2026-01-20T08:00": false,
	}
	for in, want := range cases {
		if got := ValidShootDate(in); got != want {
			t.Fatalf("ValidShootDate(%q): want %v, got %v", in, want, got)
		}
	}
}

func TestNormalizeDepartment(t *testing.T) {
	cases := map[string]Department{
		"G&E":         DeptGripElectric,
		"grip":        DeptGripElectric,
		"Lighting":    DeptGripElectric,
		"Camera":      DeptCamera,
		"STILLS":      DeptCamera,
		"VTR":         DeptCamera,
		"HMU":         DeptHairMakeup,
		"Vanities":    DeptHairMakeup,
		"Craft":       DeptCatering,
		"Transpo":     DeptTransportation,
		"Post":        DeptPostProduction,
		"Talent":      DeptOther,
		"unknown-xyz": DeptOther,
		"":            DeptOther,
		"  sound  ":   DeptSound,
	}
	for in, want := range cases {
		if got := NormalizeDepartment(in); got != want {
			t.Fatalf("NormalizeDepartment(%q): want %s, got %s", in, want, got)
		}
	}
}

func TestDepartmentDisplayName(t *testing.T) {
	if got := DeptGripElectric.DisplayName(); got != "GRIP & ELECTRIC" {
		t.Fatalf("want GRIP & ELECTRIC, got %q", got)
	}
	if got := Department("CUSTOM").DisplayName(); got != "CUSTOM" {
		t.Fatalf("unknown department should pass through, got %q", got)
	}
}

func TestWeatherUnmarshalFlatAndNested(t *testing.T) {
	var flat Weather
	if err := json.Unmarshal([]byte(`{"high": "75F", "low": "60F", "sunrise": "6:45 AM"}`), &flat); err != nil {
		t.Fatalf("unmarshal flat: %v", err)
	}
	if flat.Temperature.High != "75F" || flat.Temperature.Low != "60F" {
		t.Fatalf("flat form not lifted into temperature: %+v", flat)
	}
	if flat.Sunrise != "6:45 AM" {
		t.Fatalf("want sunrise 6:45 AM, got %q", flat.Sunrise)
	}

	var nested Weather
	if err := json.Unmarshal([]byte(`{"temperature": {"high": "70F", "low": "55F"}, "conditions": "Clear"}`), &nested); err != nil {
		t.Fatalf("unmarshal nested: %v", err)
	}
	if nested.Temperature.High != "70F" || nested.Conditions != "Clear" {
		t.Fatalf("nested form mangled: %+v", nested)
	}
}

func TestFlexStringAcceptsNumbers(t *testing.T) {
	var e CrewEntry
	if err := json.Unmarshal([]byte(`{"role": "Gaffer", "rate": 2400}`), &e); err != nil {
		t.Fatalf("unmarshal numeric rate: %v", err)
	}
	if e.Rate.String() != "2400" {
		t.Fatalf("want rate 2400, got %q", e.Rate)
	}
	if err := json.Unmarshal([]byte(`{"role": "Gaffer", "rate": "2,400.00"}`), &e); err != nil {
		t.Fatalf("unmarshal string rate: %v", err)
	}
	if e.Rate.String() != "2,400.00" {
		t.Fatalf("want rate 2,400.00, got %q", e.Rate)
	}
}

func TestParseRate(t *testing.T) {
	cases := map[string]float64{
		"2,400.00": 2400,
		"650":      650,
		"$1,200":   1200,
		"TBD":      0,
		"":         0,
	}
	for in, want := range cases {
		if got := ParseRate(in); got != want {
			t.Fatalf("ParseRate(%q): want %v, got %v", in, want, got)
		}
	}
}

func TestPrimaryCoordinates(t *testing.T) {
	l := Logistics{Locations: []Location{
		{Name: "SoFi Stadium", Address: "1001 Stadium Dr"},
		{Name: "Venice Beach", Address: "Ocean Front Walk", Coordinates: &Coordinates{Lat: 33.985, Lng: -118.4695}},
	}}
	got := l.PrimaryCoordinates()
	if got == nil || got.Lat != 33.985 {
		t.Fatalf("want Venice Beach coordinates, got %+v", got)
	}

	empty := Logistics{Locations: []Location{{Name: "TBD", Address: "TBD"}}}
	if empty.PrimaryCoordinates() != nil {
		t.Fatalf("no geocoded locations should yield nil")
	}
}
