package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/epitomehq/callsheet-backend/internal/production"
)

type weatherResponse struct {
	TimeZone struct {
		ID string `json:"id"`
	} `json:"timeZone"`
	ForecastDays []dailyForecast `json:"forecastDays"`
}

type dailyForecast struct {
	DisplayDate struct {
		Year  int `json:"year"`
		Month int `json:"month"`
		Day   int `json:"day"`
	} `json:"displayDate"`
	MaxTemperature  *tempValue `json:"maxTemperature"`
	MinTemperature  *tempValue `json:"minTemperature"`
	DaytimeForecast struct {
		WeatherCondition struct {
			Description struct {
				Text string `json:"text"`
			} `json:"description"`
		} `json:"weatherCondition"`
	} `json:"daytimeForecast"`
	SunEvents struct {
		SunriseTime string `json:"sunriseTime"`
		SunsetTime  string `json:"sunsetTime"`
	} `json:"sunEvents"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type tempValue struct {
	Degrees float64 `json:"degrees"`
}

// FetchWeather looks up the daily forecast for a position and calendar date.
// Dates outside the provider's forecast horizon, invalid coordinates and any
// request or parse failure yield nil.
func (c *Client) FetchWeather(ctx context.Context, lat, lng float64, date string) *production.Weather {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		c.log.Warn("Coordinates out of range, skipping weather", "lat", lat, "lng", lng, "date", date)
		return nil
	}
	now := c.now()
	target, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		c.log.Warn("Invalid shoot date, skipping weather", "date", date, "error", err)
		return nil
	}

	// Nearby locations share a forecast; rounding keys to 2 decimals keeps
	// near-duplicate requests off the wire.
	cacheKey := fmt.Sprintf("weather:%.2f:%.2f:%s", lat, lng, date)
	if raw, ok, err := c.cache.Get(ctx, cacheKey); err == nil && ok {
		var cached production.Weather
		if json.Unmarshal(raw, &cached) == nil {
			return &cached
		}
	}

	if c.mapsKey == "" {
		c.log.Warn("GOOGLE_MAPS_API_KEY not set, skipping weather", "date", date)
		return nil
	}

	// Midnight in the wall-clock zone, not a Truncate against the UTC
	// epoch, so the forecast window does not shift near day boundaries.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daysAhead := int(target.Sub(today).Hours() / 24)
	if daysAhead > c.forecastDays {
		c.log.Warn("Shoot date beyond forecast horizon", "date", date, "days_ahead", daysAhead, "horizon", c.forecastDays)
		return nil
	}
	if daysAhead < -1 {
		c.log.Warn("Shoot date too far in the past for weather history", "date", date)
		return nil
	}

	params := url.Values{}
	params.Set("key", c.mapsKey)
	params.Set("location.latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("location.longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("days", strconv.Itoa(c.forecastDays))
	params.Set("unitsSystem", "IMPERIAL")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.weatherURL+"?"+params.Encode(), nil)
	if err != nil {
		c.log.Warn("Failed to build weather request", "date", date, "error", err)
		return nil
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("Weather request failed", "date", date, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("Weather API returned non-OK status", "date", date, "status", resp.StatusCode)
		return nil
	}

	var body weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.log.Warn("Failed to decode weather response", "date", date, "error", err)
		return nil
	}
	if len(body.ForecastDays) == 0 {
		c.log.Warn("Weather response carried no forecast days", "date", date)
		return nil
	}

	forecast := &body.ForecastDays[0]
	for i := range body.ForecastDays {
		d := body.ForecastDays[i].DisplayDate
		if fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day) == date {
			forecast = &body.ForecastDays[i]
			break
		}
	}

	result := &production.Weather{
		Date:        date,
		Sunrise:     formatSunTime(forecast.SunEvents.SunriseTime, body.TimeZone.ID),
		Sunset:      formatSunTime(forecast.SunEvents.SunsetTime, body.TimeZone.ID),
		Temperature: production.Temperature{High: formatDegrees(forecast.MaxTemperature), Low: formatDegrees(forecast.MinTemperature)},
		Conditions:  forecast.DaytimeForecast.WeatherCondition.Description.Text,
		Wind:        formatWind(forecast.Wind.Speed),
	}
	if result.Conditions == "" {
		result.Conditions = "Unknown"
	}

	c.putCache(ctx, cacheKey, result, weatherCacheTTL)
	return result
}

func formatDegrees(v *tempValue) string {
	if v == nil {
		return production.TBD
	}
	return fmt.Sprintf("%dF", int(math.Round(v.Degrees)))
}

func formatWind(speed float64) string {
	if speed == 0 {
		return production.TBD
	}
	return fmt.Sprintf("%d mph", int(math.Round(speed)))
}

// formatSunTime converts an ISO timestamp like "2026-01-26T14:55:00Z" to a
// local clock string such as "6:55 AM". Unknown timezones fall back to UTC.
func formatSunTime(iso, tzID string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return ""
	}
	if tzID != "" {
		if loc, err := time.LoadLocation(tzID); err == nil {
			t = t.In(loc)
		}
	}
	return t.Format("3:04 PM")
}
