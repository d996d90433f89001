package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chnm/relcensus-backend/utils"
)

// Geocode result statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Error wraps a transport failure talking to the geocoding service. A lookup
// that simply finds no match is not an Error; it comes back as failed.
type Error struct {
	Address string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("geocoding %q: %v", e.Address, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Result is one geocode outcome.
type Result struct {
	Lat    float64
	Lon    float64
	Status string
}

// Client resolves addresses against Nominatim. Requests across the whole
// process are paced to one per second per the usage policy; the pacer is
// shared by every Client.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	cacheTTL  time.Duration
}

var (
	paceMu   sync.Mutex
	lastCall time.Time
)

// pace blocks until a full second has passed since the previous request.
func pace() {
	paceMu.Lock()
	defer paceMu.Unlock()

	if wait := time.Second - time.Since(lastCall); wait > 0 {
		time.Sleep(wait)
	}
	lastCall = time.Now()
}

func NewClient(userAgent string) *Client {
	if userAgent == "" {
		userAgent = "relcensus-backend/1.0"
	}
	return &Client{
		baseURL:   "https://nominatim.openstreetmap.org/search",
		userAgent: userAgent,
		http:      &http.Client{Timeout: 30 * time.Second},
		cacheTTL:  30 * 24 * time.Hour,
	}
}

type nominatimHit struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves one address. Blank addresses are skipped, cache hits cost
// nothing, and only transport failures return an error.
func (c *Client) Geocode(ctx context.Context, address string) (Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Result{Status: StatusSkipped}, nil
	}

	cacheKey := "geocode:" + address
	if cached, err := utils.CacheGet(ctx, cacheKey); err == nil && cached != "" {
		var result Result
		if json.Unmarshal([]byte(cached), &result) == nil {
			return result, nil
		}
	}

	pace()

	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return Result{Status: StatusFailed}, &Error{Address: address, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{Status: StatusFailed}, &Error{Address: address, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Status: StatusFailed}, &Error{Address: address, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var hits []nominatimHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return Result{Status: StatusFailed}, &Error{Address: address, Err: err}
	}

	result := Result{Status: StatusFailed}
	if len(hits) > 0 {
		lat, latErr := strconv.ParseFloat(hits[0].Lat, 64)
		lon, lonErr := strconv.ParseFloat(hits[0].Lon, 64)
		if latErr == nil && lonErr == nil {
			result = Result{Lat: lat, Lon: lon, Status: StatusSuccess}
		}
	}

	if data, err := json.Marshal(result); err == nil {
		_ = utils.CacheSet(ctx, cacheKey, string(data), c.cacheTTL)
	}

	return result, nil
}
