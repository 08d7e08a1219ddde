package safetyService

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"SafeDrive/internal/api/safety"
	"SafeDrive/internal/entity"
	contextPkg "SafeDrive/pkg/context"
	"SafeDrive/pkg/geocoder"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	maxSafeStops      = 10
	resultsPerTerm    = 5
	searchConcurrency = 3
	safeStopsCacheTTL = 10 * time.Minute
)

var searchTerms = []string{"gas station", "rest area", "service station", "truck stop", "parking"}

var fallbackStops = []struct {
	name     string
	category string
}{
	{"Shell Gas Station", "Gas Station"},
	{"Highway Rest Area", "Rest Area"},
	{"Truck Stop Plaza", "Truck Stop"},
	{"24/7 Service Center", "Service Station"},
	{"Public Parking Area", "Parking"},
	{"Travel Center", "Travel Center"},
}

func safeStopsCacheKey(lat, lon, radius float64) string {
	return fmt.Sprintf("safe_stops:%.3f:%.3f:%.0f", lat, lon, radius)
}

func (s *safetyService) FindSafeStops(ctx context.Context, req safety.SafeStopsRequest) (safety.SafeStopsResponse, error) {
	if req.Radius <= 0 {
		req.Radius = safety.DefaultSearchRadius
	}

	logger := s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"lat":        req.Lat,
		"lon":        req.Lon,
		"radius":     req.Radius,
	})

	key := safeStopsCacheKey(req.Lat, req.Lon, req.Radius)
	if s.deps.Cache != nil {
		var cached []entity.SafeStop
		if err := s.deps.Cache.GetJSON(ctx, key, &cached); err == nil && len(cached) > 0 {
			return safety.SafeStopsResponse{SafeStops: cached}, nil
		}
	}

	stops := s.searchStops(ctx, req)
	if len(stops) == 0 {
		logger.Info("No safe stops found, using generated stops")
		return safety.SafeStopsResponse{SafeStops: syntheticStops(req.Lat, req.Lon)}, nil
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.SetJSON(ctx, key, stops, safeStopsCacheTTL); err != nil {
			logger.WithField("error", err.Error()).Debug("Failed to cache safe stops")
		}
	}

	return safety.SafeStopsResponse{SafeStops: stops}, nil
}

// searchStops queries every search term, keeps the nearest entry per
// name and address, and returns the closest stops first.
func (s *safetyService) searchStops(ctx context.Context, req safety.SafeStopsRequest) []entity.SafeStop {
	if s.deps.Geocoder == nil {
		return nil
	}

	results := make([][]entity.SafeStop, len(searchTerms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(searchConcurrency)
	for i, term := range searchTerms {
		g.Go(func() error {
			places, err := s.deps.Geocoder.Search(gctx, geocoder.SearchQuery{
				Text:   term,
				Lat:    req.Lat,
				Lon:    req.Lon,
				Radius: req.Radius,
				Size:   resultsPerTerm,
			})
			if err != nil {
				s.log.WithFields(logrus.Fields{
					"request_id": contextPkg.GetRequestID(ctx),
					"term":       term,
					"error":      err.Error(),
				}).Warn("Safe stop search failed")
				return nil
			}
			results[i] = toSafeStops(term, places, req.Lat, req.Lon)
			return nil
		})
	}
	_ = g.Wait()

	unique := make(map[string]entity.SafeStop)
	var order []string
	for _, stops := range results {
		for _, stop := range stops {
			key := stop.Name + "_" + stop.Address
			prev, seen := unique[key]
			if !seen {
				order = append(order, key)
			}
			if !seen || stop.Distance < prev.Distance {
				unique[key] = stop
			}
		}
	}

	stops := make([]entity.SafeStop, 0, len(order))
	for _, key := range order {
		stops = append(stops, unique[key])
	}
	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].Distance < stops[j].Distance
	})

	if len(stops) > maxSafeStops {
		stops = stops[:maxSafeStops]
	}
	return stops
}

func toSafeStops(term string, places []geocoder.Place, lat, lon float64) []entity.SafeStop {
	title := titleCase(term)
	stops := make([]entity.SafeStop, 0, len(places))
	for _, p := range places {
		stop := entity.SafeStop{
			Name:        p.Name,
			Category:    p.Layer,
			Distance:    geocoder.Distance(lat, lon, p.Lat, p.Lon),
			Coordinates: []float64{p.Lon, p.Lat},
			Address:     p.Label,
		}
		if stop.Name == "" {
			stop.Name = title
		}
		if stop.Category == "" {
			stop.Category = title
		}
		stops = append(stops, stop)
	}
	return stops
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// syntheticStops places one stop of each fallback kind on a spiral around
// the driver, at most ~0.05 degrees away.
func syntheticStops(lat, lon float64) []entity.SafeStop {
	stops := make([]entity.SafeStop, 0, len(fallbackStops))
	for i, kind := range fallbackStops {
		angle := float64(i) * math.Pi / 3
		offset := 0.008 * float64(i+1)

		stopLat := lat + offset*math.Cos(angle)
		stopLon := lon + offset*math.Sin(angle)

		stops = append(stops, entity.SafeStop{
			Name:        fmt.Sprintf("%s #%d", kind.name, i+1),
			Category:    kind.category,
			Distance:    geocoder.Distance(lat, lon, stopLat, stopLon),
			Coordinates: []float64{stopLon, stopLat},
			Address:     fmt.Sprintf("Near %.3f, %.3f", lat, lon),
		})
	}

	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].Distance < stops[j].Distance
	})
	return stops
}
