package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"marker-route-service/internal/domain"
	"marker-route-service/internal/platform/metrics"
	"marker-route-service/internal/platform/obs"
	"time"
)

const orsProvider = "ors"

type orsGeocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// ORSGeocoder resolves free-text addresses with OpenRouteService (/geocode/search).
// It is safe for concurrent use.
type ORSGeocoder struct {
	http    *httpClient
	baseURL string
	// Country restricts results (boundary.country); empty means worldwide.
	Country string
}

func NewORSGeocoder(apiKey string, rps float64) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSGeocoder{
		http:    newHTTPClient(10*time.Second, rps, map[string]string{"Authorization": apiKey}),
		baseURL: "https://api.openrouteservice.org",
	}, nil
}

// Resolve returns the coordinates of the best match for address.
func (o *ORSGeocoder) Resolve(ctx context.Context, address string) (_ domain.GeoPoint, err error) {
	defer obs.Time(ctx, "ors.Resolve")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.GeoPoint{}, &Error{Provider: orsProvider, Address: address, Reason: "address must be non-empty"}
	}

	endpoint := o.baseURL + "/geocode/search"

	params := map[string]string{"text": norm, "size": "1"}
	if o.Country != "" {
		params["boundary.country"] = o.Country
	}

	resp, err := o.http.get(ctx, endpoint, params)
	if err != nil {
		metrics.GeocodeRequests.WithLabelValues(orsProvider, "error").Inc()
		return domain.GeoPoint{}, &Error{Provider: orsProvider, Address: norm, Reason: "execute request", Err: err}
	}
	defer resp.Body.Close()

	var decoded orsGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		metrics.GeocodeRequests.WithLabelValues(orsProvider, "error").Inc()
		return domain.GeoPoint{}, &Error{Provider: orsProvider, Address: norm, Reason: "decode geocode response", Err: err}
	}

	if len(decoded.Features) == 0 {
		metrics.GeocodeRequests.WithLabelValues(orsProvider, "not_found").Inc()
		return domain.GeoPoint{}, &Error{Provider: orsProvider, Address: norm, Reason: "no results found"}
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		metrics.GeocodeRequests.WithLabelValues(orsProvider, "error").Inc()
		return domain.GeoPoint{}, &Error{Provider: orsProvider, Address: norm, Reason: fmt.Sprintf("invalid coordinate format %v", coords)}
	}

	metrics.GeocodeRequests.WithLabelValues(orsProvider, "ok").Inc()

	// GeoJSON order is [lon, lat].
	return domain.GeoPoint{Lat: coords[1], Lon: coords[0]}, nil
}
