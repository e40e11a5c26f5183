// Package production defines the typed record aggregate for one shoot: job
// info, locations, schedule days, crew and client data. The record is created
// by extraction, mutated in place by enrichment, and read by the workbook
// renderer and the persistence layer.
package production

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// TBD marks a field the source material did not pin down. Rendering and
// persistence treat it the same as absent.
const TBD = "TBD"

// IsTBD reports whether a field value carries no real information.
func IsTBD(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, TBD)
}

// ValidShootDate reports whether s is a concrete YYYY-MM-DD calendar date.
// Anything else (empty, TBD, partial dates) gates weather lookups off.
func ValidShootDate(s string) bool {
	if IsTBD(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

type ProductionRecord struct {
	ProductionInfo ProductionInfo `json:"production_info"`
	Logistics      Logistics      `json:"logistics"`
	ScheduleDays   []ScheduleDay  `json:"schedule_days"`
	Schedule       []ScheduleItem `json:"schedule,omitempty"`
	CrewList       []CrewEntry    `json:"crew_list"`
	ClientInfo     ClientInfo     `json:"client_info,omitempty"`
}

// ScheduleItem is one row of the intraday shoot schedule. Most source
// material never pins this down, in which case the workbook falls back to a
// standard template.
type ScheduleItem struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
	Notes    string `json:"notes,omitempty"`
}

type ProductionInfo struct {
	JobName           string `json:"job_name"`
	Client            string `json:"client"`
	ProductionCompany string `json:"production_company"`
	JobNumber         string `json:"job_number"`
	Agency            string `json:"agency,omitempty"`
	Brand             string `json:"brand,omitempty"`
	StageName         string `json:"stage_name,omitempty"`
	StageAddress      string `json:"stage_address,omitempty"`
}

type Logistics struct {
	Locations []Location `json:"locations"`
	Hospital  *Hospital  `json:"hospital,omitempty"`
	Weather   *Weather   `json:"weather,omitempty"`
}

// PrimaryCoordinates returns the first resolved location coordinates, or nil
// when no location has been geocoded yet.
func (l *Logistics) PrimaryCoordinates() *Coordinates {
	for i := range l.Locations {
		if l.Locations[i].Coordinates != nil {
			return l.Locations[i].Coordinates
		}
	}
	return nil
}

type Location struct {
	Name             string       `json:"name"`
	Address          string       `json:"address"`
	Parking          string       `json:"parking,omitempty"`
	Contact          string       `json:"contact,omitempty"`
	Phone            string       `json:"phone,omitempty"`
	Coordinates      *Coordinates `json:"coordinates,omitempty"`
	FormattedAddress string       `json:"formatted_address,omitempty"`
}

// Coordinates are present only after a successful geocode; a nil pointer
// means "not yet resolved", not an error.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Hospital struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type Temperature struct {
	High string `json:"high"`
	Low  string `json:"low"`
}

type Weather struct {
	Date        string      `json:"date,omitempty"`
	Sunrise     string      `json:"sunrise,omitempty"`
	Sunset      string      `json:"sunset,omitempty"`
	Temperature Temperature `json:"temperature"`
	Conditions  string      `json:"conditions,omitempty"`
	Wind        string      `json:"wind,omitempty"`
}

// UnmarshalJSON accepts both shapes weather arrives in: the flat
// {"high": ..., "low": ...} template the extraction schema emits, and the
// nested {"temperature": {"high": ..., "low": ...}} form enrichment produces.
func (w *Weather) UnmarshalJSON(data []byte) error {
	type alias Weather
	var aux struct {
		alias
		High string `json:"high"`
		Low  string `json:"low"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*w = Weather(aux.alias)
	if w.Temperature.High == "" {
		w.Temperature.High = aux.High
	}
	if w.Temperature.Low == "" {
		w.Temperature.Low = aux.Low
	}
	return nil
}

type ScheduleDay struct {
	DayNumber  int      `json:"day_number"`
	Date       string   `json:"date"`
	CrewCall   string   `json:"crew_call,omitempty"`
	TalentCall string   `json:"talent_call,omitempty"`
	ShootCall  string   `json:"shoot_call,omitempty"`
	Weather    *Weather `json:"weather,omitempty"`
}

type CrewEntry struct {
	Department       string     `json:"department"`
	Role             string     `json:"role"`
	Name             string     `json:"name,omitempty"`
	Email            string     `json:"email,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Rate             FlexString `json:"rate,omitempty"`
	CallTime         string     `json:"call_time,omitempty"`
	Location         string     `json:"location,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	WorkingDays      []int      `json:"working_days,omitempty"`
	PaymentType      string     `json:"payment_type,omitempty"`
	OnboardingStatus string     `json:"onboarding_status,omitempty"`
	NdaSigned        bool       `json:"nda_signed,omitempty"`
	BtsConsent       bool       `json:"bts_consent,omitempty"`
	IsLoanOut        bool       `json:"is_loan_out,omitempty"`
	WalkieAssigned   bool       `json:"walkie_assigned,omitempty"`
	AgentName        string     `json:"agent_name,omitempty"`
	AgentPhone       string     `json:"agent_phone,omitempty"`
	AgentEmail       string     `json:"agent_email,omitempty"`
}

type ClientInfo struct {
	Name     string    `json:"name"`
	LogoURL  string    `json:"logo_url,omitempty"`
	Research *Research `json:"research,omitempty"`
}

type Research struct {
	Summary string   `json:"summary"`
	Sources []Source `json:"sources"`
}

type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// FlexString tolerates model output that emits a number where the schema asks
// for a string (rates in particular).
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// ParseRate converts a rate string like "2,400.00" to a numeric value.
// Unparseable input is worth zero, not an error.
func ParseRate(rate string) float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(rate, ",", ""))
	cleaned = strings.TrimPrefix(cleaned, "$")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
