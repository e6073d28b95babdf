package geocode

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"googlemaps.github.io/maps"
)

// mapsClient is a singleton maps client instance.
var (
	mapsClient *maps.Client
	clientOnce sync.Once
)

// InitMapsClient initializes and returns a singleton Google Maps client.
func InitMapsClient() (*maps.Client, error) {
	var err error
	clientOnce.Do(func() {
		apiKey := os.Getenv("MAPS_CREDENTIALS")
		if apiKey == "" {
			err = fmt.Errorf("MAPS_CREDENTIALS environment variable not set")
			return
		}
		mapsClient, err = maps.NewClient(maps.WithAPIKey(apiKey))
		if err != nil {
			log.Fatalf("Failed to create maps client: %v", err)
		}
	})
	return mapsClient, err
}

// ReverseGeocode resolves watchtower coordinates to a human-readable
// address for the camera list. Returns an empty string when the maps API
// has nothing for the point.
func ReverseGeocode(lat, lon float64) (string, error) {
	client, err := InitMapsClient()
	if err != nil {
		return "", err
	}

	req := &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lon},
	}

	results, err := client.ReverseGeocode(context.Background(), req)
	if err != nil {
		return "", err
	}

	if len(results) == 0 {
		return "", nil
	}
	return results[0].FormattedAddress, nil
}
