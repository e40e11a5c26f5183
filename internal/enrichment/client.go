// Package enrichment augments an extracted production record with data from
// external lookup services: geocoding, weather, nearest hospital, company
// logo and company research. Every lookup degrades to "no result" on failure;
// enrichment never aborts the generation pipeline.
package enrichment

import (
	"net/http"
	"time"

	"github.com/epitomehq/callsheet-backend/internal/cache"
	"github.com/epitomehq/callsheet-backend/internal/logger"
	"github.com/epitomehq/callsheet-backend/internal/utils"
)

const (
	defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"
	defaultPlacesURL  = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	defaultWeatherURL = "https://weather.googleapis.com/v1/forecast/days:lookup"
	defaultExaURL     = "https://api.exa.ai/search"
	defaultLogoURL    = "https://img.logo.dev"

	geocodeCacheTTL = 24 * time.Hour
	weatherCacheTTL = time.Hour
	logoCacheTTL    = 24 * time.Hour
)

// Client wraps the external lookup providers. Base URLs are fields so tests
// can point them at local servers.
type Client struct {
	log   *logger.Logger
	http  *http.Client
	cache cache.Store

	mapsKey    string
	logoPubKey string
	exaKey     string

	// Provider forecast horizon in days from today.
	forecastDays int

	// Overridable in tests so forecast-window math stays deterministic.
	now func() time.Time

	geocodeURL string
	placesURL  string
	weatherURL string
	exaURL     string
	logoURL    string
}

func NewClient(log *logger.Logger, store cache.Store) *Client {
	l := log.With("service", "EnrichmentClient")
	return &Client{
		log:          l,
		http:         &http.Client{Timeout: 15 * time.Second},
		cache:        store,
		mapsKey:      utils.GetEnv("GOOGLE_MAPS_API_KEY", "", l),
		logoPubKey:   utils.GetEnv("LOGO_DEV_PUBLISHABLE_KEY", "", l),
		exaKey:       utils.GetEnv("EXA_API_KEY", "", l),
		forecastDays: utils.GetEnvAsInt("WEATHER_FORECAST_DAYS", 10, l),
		now:          time.Now,
		geocodeURL:   defaultGeocodeURL,
		placesURL:    defaultPlacesURL,
		weatherURL:   defaultWeatherURL,
		exaURL:       defaultExaURL,
		logoURL:      defaultLogoURL,
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
