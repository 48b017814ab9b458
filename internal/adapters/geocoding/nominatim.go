package geocoding

import (
	"context"
	"encoding/json"
	"marker-route-service/internal/domain"
	"marker-route-service/internal/platform/metrics"
	"marker-route-service/internal/platform/obs"
	"strconv"
	"time"
)

const nominatimProvider = "nominatim"

type nominatimResponse struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NominatimGeocoder resolves addresses with OpenStreetMap Nominatim.
// The public instance allows one request per second; keep rps at or below 1 there.
type NominatimGeocoder struct {
	http    *httpClient
	baseURL string
}

func NewNominatimGeocoder(rps float64) *NominatimGeocoder {
	return &NominatimGeocoder{
		http:    newHTTPClient(10*time.Second, rps, nil),
		baseURL: "https://nominatim.openstreetmap.org",
	}
}

// Resolve returns the coordinates of the first Nominatim match for address.
func (g *NominatimGeocoder) Resolve(ctx context.Context, address string) (_ domain.GeoPoint, err error) {
	defer obs.Time(ctx, "nominatim.Resolve")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.GeoPoint{}, &Error{Provider: nominatimProvider, Address: address, Reason: "address must be non-empty"}
	}

	endpoint := g.baseURL + "/search"

	resp, err := g.http.get(ctx, endpoint, map[string]string{
		"q":      norm,
		"format": "json",
		"limit":  "1",
	})
	if err != nil {
		metrics.GeocodeRequests.WithLabelValues(nominatimProvider, "error").Inc()
		return domain.GeoPoint{}, &Error{Provider: nominatimProvider, Address: norm, Reason: "execute request", Err: err}
	}
	defer resp.Body.Close()

	var results []nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		metrics.GeocodeRequests.WithLabelValues(nominatimProvider, "error").Inc()
		return domain.GeoPoint{}, &Error{Provider: nominatimProvider, Address: norm, Reason: "decode response", Err: err}
	}

	if len(results) == 0 {
		metrics.GeocodeRequests.WithLabelValues(nominatimProvider, "not_found").Inc()
		return domain.GeoPoint{}, &Error{Provider: nominatimProvider, Address: norm, Reason: "no results found"}
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.GeoPoint{}, &Error{Provider: nominatimProvider, Address: norm, Reason: "invalid latitude", Err: err}
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.GeoPoint{}, &Error{Provider: nominatimProvider, Address: norm, Reason: "invalid longitude", Err: err}
	}

	metrics.GeocodeRequests.WithLabelValues(nominatimProvider, "ok").Inc()
	return domain.GeoPoint{Lat: lat, Lon: lon}, nil
}
