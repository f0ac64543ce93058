package geocode

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"devcamper/internal/cache"
	"devcamper/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const bostonResponse = `{
  "info": {"statuscode": 0, "messages": []},
  "results": [{"locations": [{
    "street": "233 Bay State Rd",
    "adminArea5": "Boston",
    "adminArea3": "MA",
    "adminArea1": "US",
    "postalCode": "02215",
    "latLng": {"lat": 42.350846, "lng": -71.103735}
  }]}]
}`

func TestNewMapQuest(t *testing.T) {
	_, err := NewMapQuest("http://x", "")
	require.Error(t, err)
}

func TestMapQuestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "k", r.URL.Query().Get("key"))
		switch r.URL.Query().Get("location") {
		case "233 Bay State Rd Boston MA 02215":
			io.WriteString(w, bostonResponse)
		case "nowhere":
			io.WriteString(w, `{"info":{"statuscode":0},"results":[{"locations":[]}]}`)
		case "bad key":
			io.WriteString(w, `{"info":{"statuscode":403,"messages":["key invalid"]}}`)
		case "garbage":
			io.WriteString(w, `{`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	m, err := NewMapQuest(srv.URL, "k")
	require.NoError(t, err)

	loc, err := m.Geocode(context.Background(), "233 Bay State Rd Boston MA 02215")
	require.NoError(t, err)
	require.Equal(t, "Point", loc.Type)
	require.Equal(t, []float64{-71.103735, 42.350846}, loc.Coordinates)
	require.Equal(t, "Boston", loc.City)
	require.Equal(t, "02215", loc.Zipcode)
	require.Equal(t, "233 Bay State Rd, Boston, MA 02215, US", loc.FormattedAddress)

	_, err = m.Geocode(context.Background(), "nowhere")
	require.ErrorIs(t, err, ErrNoResult)

	_, err = m.Geocode(context.Background(), "bad key")
	require.ErrorContains(t, err, "key invalid")

	_, err = m.Geocode(context.Background(), "garbage")
	require.ErrorContains(t, err, "decode")

	_, err = m.Geocode(context.Background(), "boom")
	require.ErrorContains(t, err, "status 500")
}

func TestCachedGeocode(t *testing.T) {
	store := map[string]string{}
	c := &cache.FakeCache{
		GetFn: func(_ context.Context, key string) *redis.StringCmd {
			v, ok := store[key]
			if !ok {
				return redis.NewStringResult("", redis.Nil)
			}
			return redis.NewStringResult(v, nil)
		},
		SetFn: func(_ context.Context, key string, v any, ttl time.Duration) *redis.StatusCmd {
			require.Equal(t, CacheTTL, ttl)
			store[key] = string(v.([]byte))
			return redis.NewStatusResult("OK", nil)
		},
	}
	calls := 0
	next := &FakeGeocoder{GeocodeFn: func(_ context.Context, address string) (*model.Location, error) {
		calls++
		if address == "missing" {
			return nil, ErrNoResult
		}
		loc := model.NewPoint(42.35, -71.1)
		loc.Zipcode = "02118"
		return &loc, nil
	}}

	g := NewCached(next, c, nil)
	first, err := g.Geocode(context.Background(), "02118")
	require.NoError(t, err)
	second, err := g.Geocode(context.Background(), "  02118 ")
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	require.Equal(t, first, second)
	require.Contains(t, store, "geocode:02118")

	_, err = g.Geocode(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNoResult)
}

func TestCachedGeocodeCacheDown(t *testing.T) {
	var logged []error
	c := &cache.FakeCache{
		GetFn: func(context.Context, string) *redis.StringCmd {
			return redis.NewStringResult("", errors.New("down"))
		},
		SetFn: func(context.Context, string, any, time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("", errors.New("down"))
		},
	}
	next := &FakeGeocoder{GeocodeFn: func(context.Context, string) (*model.Location, error) {
		loc := model.NewPoint(1, 2)
		return &loc, nil
	}}
	g := NewCached(next, c, func(err error) { logged = append(logged, err) })

	loc, err := g.Geocode(context.Background(), "x")
	require.NoError(t, err)
	require.Equal(t, []float64{2, 1}, loc.Coordinates)
	require.Len(t, logged, 2)
}

func TestFakeGeocoder(t *testing.T) {
	require.Panics(t, func() { (&FakeGeocoder{}).Geocode(context.Background(), "x") })
}

func TestFormatAddress(t *testing.T) {
	require.Equal(t, "Boston, US", formatAddress("", "Boston", " ", "US"))
	require.True(t, strings.HasPrefix(cacheKey("A  B"), "geocode:a b"))
}
