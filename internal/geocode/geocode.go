// Package geocode 將地址轉換為 GeoJSON 座標
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"devcamper/internal/model"
)

// ErrNoResult 供應商找不到該地址
var ErrNoResult = errors.New("address not found")

// Geocoder resolves a free-form address or zipcode to a location.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*model.Location, error)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// MapQuest calls the MapQuest geocoding v1 address endpoint.
type MapQuest struct {
	client  httpDoer
	baseURL string
	apiKey  string
}

func NewMapQuest(baseURL, apiKey string) (*MapQuest, error) {
	if apiKey == "" {
		return nil, errors.New("geocoder api key not set")
	}
	return &MapQuest{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

type mapQuestResponse struct {
	Info struct {
		StatusCode int      `json:"statuscode"`
		Messages   []string `json:"messages"`
	} `json:"info"`
	Results []struct {
		Locations []struct {
			Street     string `json:"street"`
			City       string `json:"adminArea5"`
			State      string `json:"adminArea3"`
			Country    string `json:"adminArea1"`
			PostalCode string `json:"postalCode"`
			LatLng     struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
		} `json:"locations"`
	} `json:"results"`
}

func (m *MapQuest) Geocode(ctx context.Context, address string) (*model.Location, error) {
	q := url.Values{}
	q.Set("key", m.apiKey)
	q.Set("location", address)
	q.Set("maxResults", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request: status %d", resp.StatusCode)
	}

	var body mapQuestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("geocode decode: %w", err)
	}
	if body.Info.StatusCode != 0 {
		return nil, fmt.Errorf("geocode: %s", strings.Join(body.Info.Messages, "; "))
	}
	if len(body.Results) == 0 || len(body.Results[0].Locations) == 0 {
		return nil, ErrNoResult
	}

	l := body.Results[0].Locations[0]
	loc := model.NewPoint(l.LatLng.Lat, l.LatLng.Lng)
	loc.Street = l.Street
	loc.City = l.City
	loc.State = l.State
	loc.Zipcode = l.PostalCode
	loc.Country = l.Country
	loc.FormattedAddress = formatAddress(l.Street, l.City, l.State+" "+l.PostalCode, l.Country)
	return &loc, nil
}

func formatAddress(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

// FakeGeocoder 測試用
type FakeGeocoder struct {
	GeocodeFn func(ctx context.Context, address string) (*model.Location, error)
}

func (f *FakeGeocoder) Geocode(ctx context.Context, address string) (*model.Location, error) {
	if f.GeocodeFn != nil {
		return f.GeocodeFn(ctx, address)
	}
	panic("unexpected Geocode")
}
