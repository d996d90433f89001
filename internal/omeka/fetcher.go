package omeka

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/chnm/relcensus-backend/internal/census"
)

// FetchOptions mirror the fetch-images command flags.
type FetchOptions struct {
	Limit     int
	Test      bool
	DryRun    bool
	Force     bool
	StartFrom string
	Delay     time.Duration
	BatchSize int
}

// FetchSummary counts one fetch run.
type FetchSummary struct {
	Fetched int
	Skipped int
	Failed  int
}

// Fetcher downloads schedule images from the Omeka API.
type Fetcher struct {
	baseURL   string
	uploadDir string
	http      *http.Client
}

const maxAttempts = 4

func NewFetcher(baseURL, uploadDir string) *Fetcher {
	return &Fetcher{
		baseURL:   baseURL,
		uploadDir: uploadDir,
		http:      &http.Client{Timeout: 60 * time.Second},
	}
}

type omekaMedia struct {
	ID          int    `json:"o:id"`
	OriginalURL string `json:"o:original_url"`
	StorageID   string `json:"o:storage_id"`
}

// Run fetches images for schedules that still lack one. Transient API
// failures are retried with exponential backoff before a schedule is counted
// failed; the run itself keeps going.
func (f *Fetcher) Run(ctx context.Context, repo census.Repository, opts FetchOptions) (FetchSummary, error) {
	limit := opts.Limit
	if opts.Test {
		limit = 5
	}

	schedules, err := repo.SchedulesNeedingImages(limit, opts.StartFrom, opts.Force)
	if err != nil {
		return FetchSummary{}, fmt.Errorf("loading schedules: %w", err)
	}

	log.Printf("🔄 Fetching images for %d schedules", len(schedules))

	var summary FetchSummary
	for i := range schedules {
		schedule := &schedules[i]

		if opts.DryRun {
			log.Printf("ℹ️ Would fetch image for %s (item %s)", schedule.ResourceID, schedule.DatascribeOmekaItemID)
			summary.Skipped++
			continue
		}

		if err := f.fetchOne(ctx, repo, schedule); err != nil {
			log.Printf("❌ Failed to fetch image for %s: %v", schedule.ResourceID, err)
			summary.Failed++
		} else {
			summary.Fetched++
		}

		if opts.Delay > 0 {
			time.Sleep(opts.Delay)
		}
		if opts.BatchSize > 0 && (i+1)%opts.BatchSize == 0 {
			log.Printf("🔄 Processed %d of %d schedules", i+1, len(schedules))
		}
	}

	log.Printf("✅ Image fetch finished: %d fetched, %d skipped, %d failed",
		summary.Fetched, summary.Skipped, summary.Failed)
	return summary, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, repo census.Repository, schedule *census.CensusSchedule) error {
	media, err := f.itemMedia(ctx, schedule.DatascribeOmekaItemID)
	if err != nil {
		return err
	}
	if media.OriginalURL == "" {
		return fmt.Errorf("item %s has no original image", schedule.DatascribeOmekaItemID)
	}

	filename := fmt.Sprintf("%s%s", schedule.ResourceID, filepath.Ext(media.OriginalURL))
	destination := filepath.Join(f.uploadDir, filename)

	if err := f.download(ctx, media.OriginalURL, destination); err != nil {
		return err
	}

	schedule.OriginalImagePath = destination
	schedule.OmekaStorageID = media.StorageID
	return repo.Save(schedule)
}

// itemMedia retries the API call with exponential backoff. Attempt n sleeps
// 2^n seconds, so four attempts wait at most 2+4+8 seconds in total.
func (f *Fetcher) itemMedia(ctx context.Context, itemID string) (*omekaMedia, error) {
	url := fmt.Sprintf("%s/media?item_id=%s", f.baseURL, itemID)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		media, err := f.requestMedia(ctx, url)
		if err == nil {
			return media, nil
		}
		lastErr = err

		if attempt < maxAttempts {
			wait := time.Duration(1<<attempt) * time.Second
			log.Printf("⚠️ Omeka request failed (attempt %d/%d), retrying in %s: %v", attempt, maxAttempts, wait, err)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

func (f *Fetcher) requestMedia(ctx context.Context, url string) (*omekaMedia, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var media []omekaMedia
	if err := json.NewDecoder(resp.Body).Decode(&media); err != nil {
		return nil, err
	}
	if len(media) == 0 {
		return nil, fmt.Errorf("no media found")
	}

	return &media[0], nil
}

func (f *Fetcher) download(ctx context.Context, url, destination string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return err
	}

	out, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}
