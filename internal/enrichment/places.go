package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/epitomehq/callsheet-backend/internal/production"
)

// Name keywords that separate real hospitals from clinics and offices. The
// Norwegian terms matter because shoots routinely book Scandinavian locations.
var (
	hospitalKeywords = []string{"hospital", "sykehus", "medical center", "emergency"}
	clinicKeywords   = []string{"legesenter", "clinic", "klinikk", "doctor", "dental", "tannlege"}
)

type placesResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		Vicinity         string `json:"vicinity"`
	} `json:"results"`
}

// FindNearestHospital searches for an emergency-capable hospital near a
// position. A plain type=hospital query returns clinics and doctors' offices,
// so results are filtered by name: keyword match first, then first non-clinic
// result, then first result overall.
func (c *Client) FindNearestHospital(ctx context.Context, lat, lng float64) *production.Hospital {
	if c.mapsKey == "" {
		c.log.Warn("GOOGLE_MAPS_API_KEY not set, skipping hospital lookup")
		return nil
	}

	params := url.Values{}
	params.Set("query", "hospital emergency room")
	params.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("radius", "25000")
	params.Set("type", "hospital")
	params.Set("key", c.mapsKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.placesURL+"?"+params.Encode(), nil)
	if err != nil {
		c.log.Warn("Failed to build places request", "error", err)
		return nil
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("Places request failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("Places API returned non-OK status", "status", resp.StatusCode)
		return nil
	}

	var body placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.log.Warn("Failed to decode places response", "error", err)
		return nil
	}
	if body.Status != "OK" || len(body.Results) == 0 {
		c.log.Warn("No hospitals found nearby", "status", body.Status, "lat", lat, "lng", lng)
		return nil
	}

	address := func(i int) string {
		if body.Results[i].FormattedAddress != "" {
			return body.Results[i].FormattedAddress
		}
		return body.Results[i].Vicinity
	}

	for i := range body.Results {
		name := strings.ToLower(body.Results[i].Name)
		if matchesAny(name, clinicKeywords) {
			continue
		}
		if matchesAny(name, hospitalKeywords) {
			c.log.Info("Found hospital", "name", body.Results[i].Name)
			return &production.Hospital{Name: body.Results[i].Name, Address: address(i)}
		}
	}

	for i := range body.Results {
		if !matchesAny(strings.ToLower(body.Results[i].Name), clinicKeywords) {
			c.log.Info("Found hospital (fallback)", "name", body.Results[i].Name)
			return &production.Hospital{Name: body.Results[i].Name, Address: address(i)}
		}
	}

	c.log.Info("Found hospital (last resort)", "name", body.Results[0].Name)
	return &production.Hospital{Name: body.Results[0].Name, Address: address(0)}
}

func matchesAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}
