package geocoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	defaultBaseURL = "https://api.openrouteservice.org"
	earthRadiusKm  = 6371.0
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrMissingKey = errors.New("geocoder API key is required")

type Place struct {
	Name  string
	Layer string
	Label string
	Lat   float64
	Lon   float64
}

type SearchQuery struct {
	Text   string
	Lat    float64
	Lon    float64
	Radius float64 // meters
	Size   int
}

type IGeocoder interface {
	Search(ctx context.Context, q SearchQuery) ([]Place, error)
}

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

type featureCollection struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Name  string `json:"name"`
			Layer string `json:"layer"`
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

func New(cfg Config) (IGeocoder, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingKey
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *client) Search(ctx context.Context, q SearchQuery) ([]Place, error) {
	size := q.Size
	if size <= 0 {
		size = 5
	}

	lat := strconv.FormatFloat(q.Lat, 'f', -1, 64)
	lon := strconv.FormatFloat(q.Lon, 'f', -1, 64)

	params := url.Values{}
	params.Set("text", q.Text)
	params.Set("focus.point.lat", lat)
	params.Set("focus.point.lon", lon)
	params.Set("boundary.circle.lat", lat)
	params.Set("boundary.circle.lon", lon)
	params.Set("boundary.circle.radius", strconv.FormatFloat(q.Radius/1000, 'f', -1, 64))
	params.Set("size", strconv.Itoa(size))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/geocode/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder API error: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var fc featureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}

	places := make([]Place, 0, len(fc.Features))
	for _, f := range fc.Features {
		coords := f.Geometry.Coordinates
		if len(coords) < 2 {
			continue
		}
		places = append(places, Place{
			Name:  f.Properties.Name,
			Layer: f.Properties.Layer,
			Label: f.Properties.Label,
			Lon:   coords[0],
			Lat:   coords[1],
		})
	}

	return places, nil
}

// Distance returns the great-circle distance between two points in meters.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Pow(math.Sin(dLon/2), 2)

	return 2 * math.Asin(math.Sqrt(a)) * earthRadiusKm * 1000
}
