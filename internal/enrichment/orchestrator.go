package enrichment

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/epitomehq/callsheet-backend/internal/logger"
	"github.com/epitomehq/callsheet-backend/internal/production"
)

const (
	// Geocode, logo and research calls share one pool; weather gets a wider
	// one because a multi-day shoot fans out per date.
	lookupConcurrency  = 6
	weatherConcurrency = 10
)

// ProgressFunc receives coarse pipeline progress for the SSE stream.
type ProgressFunc func(stageID string, percent int, message string)

// Orchestrator fans out the enrichment lookups and merges results back into
// the record. It only ever adds data: fields already populated by the user or
// a previous run are left alone.
type Orchestrator struct {
	log    *logger.Logger
	client *Client
}

func NewOrchestrator(log *logger.Logger, client *Client) *Orchestrator {
	return &Orchestrator{
		log:    log.With("service", "EnrichmentOrchestrator"),
		client: client,
	}
}

// Enrich mutates record in place. Individual lookup failures degrade to
// missing data and never fail the pipeline; the returned error is only ever
// the context's.
func (o *Orchestrator) Enrich(ctx context.Context, record *production.ProductionRecord, onProgress ProgressFunc) error {
	emit := func(stageID string, percent int, message string) {
		if onProgress != nil {
			onProgress(stageID, percent, message)
		}
		o.log.Info(message, "stage", stageID, "percent", percent)
	}

	clientName := record.ProductionInfo.Client
	if record.ClientInfo.Name == "" {
		record.ClientInfo.Name = clientName
	}

	type geocodeTarget struct {
		index   int
		address string
	}
	var targets []geocodeTarget
	for i := range record.Logistics.Locations {
		if !production.IsTBD(record.Logistics.Locations[i].Address) {
			targets = append(targets, geocodeTarget{index: i, address: record.Logistics.Locations[i].Address})
		}
	}

	emit("geocoding", 50, "Fetching location & client data...")

	var (
		mu     sync.Mutex
		coords = make(map[int]*GeocodeResult)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for _, t := range targets {
		g.Go(func() error {
			if result := o.client.Geocode(gctx, t.address); result != nil {
				mu.Lock()
				coords[t.index] = result
				mu.Unlock()
			}
			return nil
		})
	}
	if !production.IsTBD(clientName) {
		g.Go(func() error {
			if url := o.client.CompanyLogoURL(gctx, clientName); url != "" && record.ClientInfo.LogoURL == "" {
				record.ClientInfo.LogoURL = url
			}
			return nil
		})
		g.Go(func() error {
			if research := o.client.ResearchCompany(gctx, clientName); research != nil && record.ClientInfo.Research == nil {
				record.ClientInfo.Research = research
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, result := range coords {
		loc := &record.Logistics.Locations[i]
		loc.Coordinates = &production.Coordinates{Lat: result.Lat, Lng: result.Lng}
		loc.FormattedAddress = result.FormattedAddress
	}

	primary := record.Logistics.PrimaryCoordinates()
	if primary == nil && len(record.Logistics.Locations) > 0 {
		o.log.Warn("No coordinates resolved for any location, skipping weather and hospital")
	}

	if primary != nil && len(record.ScheduleDays) > 0 {
		dates := distinctValidDates(record.ScheduleDays)
		if len(dates) > 0 {
			emit("weather", 70, "Fetching weather data...")

			weatherByDate := make(map[string]*production.Weather)
			wg, wctx := errgroup.WithContext(ctx)
			wg.SetLimit(weatherConcurrency)
			for _, date := range dates {
				wg.Go(func() error {
					if w := o.client.FetchWeather(wctx, primary.Lat, primary.Lng, date); w != nil {
						mu.Lock()
						weatherByDate[date] = w
						mu.Unlock()
					}
					return nil
				})
			}
			if err := wg.Wait(); err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			for i := range record.ScheduleDays {
				day := &record.ScheduleDays[i]
				if w, ok := weatherByDate[day.Date]; ok {
					day.Weather = w
				}
			}
			if first, ok := weatherByDate[record.ScheduleDays[0].Date]; ok {
				record.Logistics.Weather = first
			}
		} else {
			o.log.Warn("No valid shoot dates found, skipping weather")
		}
	}

	// Never overwrite a hospital the user named themselves.
	if primary != nil && (record.Logistics.Hospital == nil || production.IsTBD(record.Logistics.Hospital.Name)) {
		if hospital := o.client.FindNearestHospital(ctx, primary.Lat, primary.Lng); hospital != nil {
			record.Logistics.Hospital = hospital
		}
	}

	emit("research", 85, "Finalizing enrichment...")
	return ctx.Err()
}

func distinctValidDates(days []production.ScheduleDay) []string {
	seen := make(map[string]bool)
	var dates []string
	for i := range days {
		date := days[i].Date
		if production.ValidShootDate(date) && !seen[date] {
			seen[date] = true
			dates = append(dates, date)
		}
	}
	return dates
}
