package ticketmaster

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"event-sync/core/metrics"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://app.ticketmaster.com/discovery/v2"

	// pageSize is the maximum the Discovery API allows.
	pageSize = 200

	// maxPages bounds a fetch regardless of upstream pagination bugs.
	maxPages = 50

	// rateLimitBackoff is slept before the single retry after a 429.
	rateLimitBackoff = 5 * time.Second
)

// Event is a raw Ticketmaster Discovery event payload.
type Event struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	URL             string           `json:"url"`
	Dates           Dates            `json:"dates"`
	Classifications []Classification `json:"classifications"`
	Images          []Image          `json:"images"`
	Embedded        *Embedded        `json:"_embedded"`
}

// Dates holds the start/end times and the status code.
type Dates struct {
	Start  DateValue `json:"start"`
	End    DateValue `json:"end"`
	Status Status    `json:"status"`
}

// DateValue carries the RFC3339 UTC timestamp.
type DateValue struct {
	DateTime string `json:"dateTime"`
}

// Status is the upstream sale status (onsale, cancelled, postponed, ...).
type Status struct {
	Code string `json:"code"`
}

// Classification carries segment/genre labels.
type Classification struct {
	Segment NamedValue `json:"segment"`
	Genre   NamedValue `json:"genre"`
}

// NamedValue is a labelled classification entry.
type NamedValue struct {
	Name string `json:"name"`
}

// Image is one event image variant.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Embedded carries the expanded venue list.
type Embedded struct {
	Venues []Venue `json:"venues"`
}

// Venue is an expanded venue record.
type Venue struct {
	Name     string        `json:"name"`
	Address  VenueAddress  `json:"address"`
	Location VenueLocation `json:"location"`
}

// VenueAddress holds the street lines.
type VenueAddress struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

// VenueLocation holds city, postal code, and region codes.
type VenueLocation struct {
	City        string `json:"city"`
	PostalCode  string `json:"postalCode"`
	StateCode   string `json:"stateCode"`
	CountryCode string `json:"countryCode"`
}

type page struct {
	Number     int `json:"number"`
	TotalPages int `json:"totalPages"`
}

type eventsResponse struct {
	Embedded *struct {
		Events []Event `json:"events"`
	} `json:"_embedded"`
	Page page `json:"page"`
}

// Client fetches events from the Ticketmaster Discovery API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	backoff time.Duration
	logger  *zap.Logger
}

// NewClient creates a Ticketmaster client with the given API key.
func NewClient(apiKey string, logger *zap.Logger) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		backoff: rateLimitBackoff,
		logger:  logger,
	}
}

// WithBaseURL overrides the API base URL. Used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// WithBackoff overrides the 429 retry delay. Used by tests.
func (c *Client) WithBackoff(d time.Duration) *Client {
	c.backoff = d
	return c
}

// FetchEvents returns all events for a city, paging until the upstream
// reports the last page or the page ceiling is hit. Any page failure aborts
// the whole fetch.
func (c *Client) FetchEvents(ctx context.Context, city, countryCode string) ([]Event, error) {
	var events []Event

	for pageNum := 0; ; pageNum++ {
		if pageNum >= maxPages {
			c.logger.Warn("Reached maximum page limit, stopping fetch",
				zap.Int("max_pages", maxPages))
			break
		}

		params := url.Values{}
		params.Set("apikey", c.apiKey)
		params.Set("city", city)
		params.Set("countryCode", countryCode)
		params.Set("size", strconv.Itoa(pageSize))
		params.Set("page", strconv.Itoa(pageNum))

		body, err := c.get(ctx, c.baseURL+"/events.json?"+params.Encode())
		if err != nil {
			return nil, err
		}

		var resp eventsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("ticketmaster: decoding page %d: %w", pageNum, err)
		}

		if resp.Embedded != nil {
			events = append(events, resp.Embedded.Events...)
		}
		metrics.FetchPages.WithLabelValues("ticketmaster").Inc()

		if resp.Page.Number >= resp.Page.TotalPages-1 {
			break
		}
	}

	return events, nil
}

// get performs one GET with a single backoff retry on 429. A 400 surfaces
// the response body, which carries the upstream validation message.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	body, status, err := c.doGet(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if status == http.StatusTooManyRequests {
		c.logger.Warn("Ticketmaster rate limited, backing off",
			zap.Duration("backoff", c.backoff))
		select {
		case <-time.After(c.backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		body, status, err = c.doGet(ctx, rawURL)
		if err != nil {
			return nil, err
		}
	}

	if status == http.StatusBadRequest {
		return nil, fmt.Errorf("ticketmaster: bad request: %s", string(body))
	}
	if status/100 != 2 {
		return nil, fmt.Errorf("ticketmaster: http %d", status)
	}
	return body, nil
}

func (c *Client) doGet(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("ticketmaster: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("ticketmaster: reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}
