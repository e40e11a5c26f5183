package enrichment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/epitomehq/callsheet-backend/internal/production"
)

// GeocodeResult is the resolved position for one street address.
type GeocodeResult struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address"`
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves an address to coordinates via the Google Geocoding API.
// Empty or placeholder addresses, missing credentials and upstream failures
// all yield nil.
func (c *Client) Geocode(ctx context.Context, address string) *GeocodeResult {
	if production.IsTBD(address) {
		return nil
	}

	cacheKey := "geocode:" + strings.ToLower(strings.TrimSpace(address))
	if raw, ok, err := c.cache.Get(ctx, cacheKey); err == nil && ok {
		var cached GeocodeResult
		if json.Unmarshal(raw, &cached) == nil {
			return &cached
		}
	}

	if c.mapsKey == "" {
		c.log.Warn("GOOGLE_MAPS_API_KEY not set, skipping geocode", "address", address)
		return nil
	}

	params := url.Values{}
	params.Set("address", address)
	params.Set("key", c.mapsKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.geocodeURL+"?"+params.Encode(), nil)
	if err != nil {
		c.log.Warn("Failed to build geocode request", "address", address, "error", err)
		return nil
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("Geocode request failed", "address", address, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("Geocode returned non-OK status", "address", address, "status", resp.StatusCode)
		return nil
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.log.Warn("Failed to decode geocode response", "address", address, "error", err)
		return nil
	}
	if body.Status != "OK" || len(body.Results) == 0 {
		c.log.Warn("Geocode found no results", "address", address, "status", body.Status)
		return nil
	}

	first := body.Results[0]
	result := &GeocodeResult{
		Lat:              first.Geometry.Location.Lat,
		Lng:              first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
	}
	c.putCache(ctx, cacheKey, result, geocodeCacheTTL)
	return result
}

func (c *Client) putCache(ctx context.Context, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.cache.Put(ctx, key, raw, ttl); err != nil {
		c.log.Warn("Cache write failed", "key", key, "error", err)
	}
}
