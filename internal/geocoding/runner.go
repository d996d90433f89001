package geocoding

import (
	"context"
	"fmt"
	"log"

	"github.com/chnm/relcensus-backend/internal/census"
)

// RunSummary counts a geocoding batch.
type RunSummary struct {
	Geocoded int
	Failed   int
	Skipped  int
}

// Run geocodes religious bodies that have an address but no coordinates. A
// transport failure aborts the batch so a dead network does not burn through
// the whole queue; lookup misses just mark the body failed and move on.
func Run(ctx context.Context, repo census.Repository, client *Client, limit int) (RunSummary, error) {
	bodies, err := repo.BodiesNeedingGeocode(limit)
	if err != nil {
		return RunSummary{}, fmt.Errorf("loading bodies to geocode: %w", err)
	}

	log.Printf("🔄 Geocoding %d religious bodies", len(bodies))

	var summary RunSummary
	for i := range bodies {
		body := &bodies[i]

		address := body.Address
		if body.Location != nil {
			address = fmt.Sprintf("%s, %s, %s", address, body.Location.City, body.Location.State)
		}

		result, err := client.Geocode(ctx, address)
		if err != nil {
			return summary, err
		}

		switch result.Status {
		case StatusSuccess:
			lat, lon := result.Lat, result.Lon
			body.Latitude = &lat
			body.Longitude = &lon
			summary.Geocoded++
		case StatusFailed:
			summary.Failed++
		case StatusSkipped:
			summary.Skipped++
		}
		body.GeocodeStatus = result.Status

		if err := repo.SaveBody(body); err != nil {
			return summary, fmt.Errorf("saving body %d: %w", body.ID, err)
		}
	}

	log.Printf("✅ Geocoding finished: %d geocoded, %d failed, %d skipped",
		summary.Geocoded, summary.Failed, summary.Skipped)
	return summary, nil
}
