package eventbrite

import (
	"context"
	"encoding/json"
	"errors"
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
	defaultBaseURL = "https://www.eventbriteapi.com/v3"

	// maxPages bounds a fetch regardless of upstream pagination bugs.
	maxPages = 50

	// rateLimitBackoff is slept before the single retry after a 429.
	rateLimitBackoff = 5 * time.Second
)

// Event is a raw Eventbrite event payload. Only the fields the mapper
// extracts are declared.
type Event struct {
	ID     string         `json:"id"`
	Name   *MultipartText `json:"name"`
	Start  *DateTime      `json:"start"`
	End    *DateTime      `json:"end"`
	Status string         `json:"status"`
	URL    string         `json:"url"`
	Venue  *Venue         `json:"venue"`
	Logo   *Logo          `json:"logo"`

	// Change token candidates, in preference order.
	Changed string `json:"changed"`
	Updated string `json:"updated"`
	Created string `json:"created"`
}

// MultipartText is Eventbrite's text/html field pair.
type MultipartText struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

// DateTime is Eventbrite's local time + timezone pair.
type DateTime struct {
	Timezone string `json:"timezone"`
	Local    string `json:"local"`
	UTC      string `json:"utc"`
}

// Venue is an expanded venue record.
type Venue struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

// Address is the venue address block.
type Address struct {
	Address1   string `json:"address_1"`
	Address2   string `json:"address_2"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Region     string `json:"region"`
	Country    string `json:"country"`
}

// Logo is the expanded event image.
type Logo struct {
	URL string `json:"url"`
}

type pagination struct {
	HasMoreItems bool `json:"has_more_items"`
}

type eventsResponse struct {
	Pagination pagination `json:"pagination"`
	Events     []Event    `json:"events"`
}

type organizationsResponse struct {
	Organizations []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"organizations"`
}

// Client fetches events from the Eventbrite API, one page at a time.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	backoff time.Duration
	logger  *zap.Logger
}

// NewClient creates an Eventbrite client with the given bearer token.
func NewClient(token string, logger *zap.Logger) *Client {
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
		token:   token,
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

// DetectOrganization returns the id and name of the first organization the
// token belongs to.
func (c *Client) DetectOrganization(ctx context.Context) (string, string, error) {
	body, err := c.get(ctx, c.baseURL+"/users/me/organizations/")
	if err != nil {
		return "", "", err
	}

	var resp organizationsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", "", fmt.Errorf("eventbrite: decoding organizations: %w", err)
	}
	if len(resp.Organizations) == 0 {
		return "", "", errors.New("eventbrite: no organizations found for this token")
	}
	return resp.Organizations[0].ID, resp.Organizations[0].Name, nil
}

// FetchOrgEvents returns all live events of one organization within the
// time window, paging until the upstream reports no more items.
func (c *Client) FetchOrgEvents(ctx context.Context, orgID string, start, end time.Time) ([]Event, error) {
	params := url.Values{}
	params.Set("status", "live")
	params.Set("order_by", "start_asc")
	params.Set("expand", "venue,logo")
	params.Set("time_filter", "start")
	params.Set("start_date.range_start", start.Format(time.RFC3339))
	params.Set("start_date.range_end", end.Format(time.RFC3339))

	endpoint := fmt.Sprintf("%s/organizations/%s/events/", c.baseURL, orgID)
	return c.fetchPaged(ctx, endpoint, params)
}

// SearchEvents returns public events near an address within the time window.
// Upstream support for public search is unreliable; organization mode is the
// primary path.
func (c *Client) SearchEvents(ctx context.Context, address, within string, start, end time.Time) ([]Event, error) {
	if within == "" {
		within = "25km"
	}

	params := url.Values{}
	params.Set("sort_by", "date")
	params.Set("expand", "venue,logo")
	params.Set("location.address", address)
	params.Set("location.within", within)
	params.Set("start_date.range_start", start.Format(time.RFC3339))
	params.Set("start_date.range_end", end.Format(time.RFC3339))

	return c.fetchPaged(ctx, c.baseURL+"/events/search/", params)
}

// fetchPaged walks page-numbered results until has_more_items is false or
// the page ceiling is hit. Any page failure aborts the whole fetch; callers
// must treat that as zero new information, never as an empty result set.
func (c *Client) fetchPaged(ctx context.Context, endpoint string, params url.Values) ([]Event, error) {
	var events []Event

	for page := 1; ; page++ {
		if page > maxPages {
			c.logger.Warn("Reached maximum page limit, stopping fetch",
				zap.Int("max_pages", maxPages))
			break
		}

		params.Set("page", strconv.Itoa(page))
		body, err := c.get(ctx, endpoint+"?"+params.Encode())
		if err != nil {
			return nil, err
		}

		var resp eventsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("eventbrite: decoding page %d: %w", page, err)
		}

		events = append(events, resp.Events...)
		metrics.FetchPages.WithLabelValues("eventbrite").Inc()

		if !resp.Pagination.HasMoreItems {
			break
		}
	}

	return events, nil
}

// get performs one authenticated GET with a single backoff retry on 429.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	body, status, err := c.doGet(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if status == http.StatusTooManyRequests {
		c.logger.Warn("Eventbrite rate limited, backing off",
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

	if status/100 != 2 {
		return nil, fmt.Errorf("eventbrite: http %d", status)
	}
	return body, nil
}

func (c *Client) doGet(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("eventbrite: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("eventbrite: reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}
