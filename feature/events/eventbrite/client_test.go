package eventbrite_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"event-sync/feature/events/eventbrite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetchOrgEventsPaginates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "live", r.URL.Query().Get("status"))
		assert.Equal(t, "venue,logo", r.URL.Query().Get("expand"))

		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `{"pagination":{"has_more_items":true},"events":[{"id":"1"},{"id":"2"}]}`)
		case "2":
			fmt.Fprint(w, `{"pagination":{"has_more_items":false},"events":[{"id":"3"}]}`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))
	defer server.Close()

	client := eventbrite.NewClient("test-token", zap.NewNop()).WithBaseURL(server.URL)

	events, err := client.FetchOrgEvents(context.Background(), "org1", time.Now(), time.Now().AddDate(0, 0, 60))
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "1", events[0].ID)
	assert.Equal(t, "3", events[2].ID)
}

func TestFetchRetriesOnceAfterRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"pagination":{"has_more_items":false},"events":[{"id":"1"}]}`)
	}))
	defer server.Close()

	client := eventbrite.NewClient("test-token", zap.NewNop()).
		WithBaseURL(server.URL).
		WithBackoff(0)

	events, err := client.FetchOrgEvents(context.Background(), "org1", time.Now(), time.Now())
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchFailsOnPersistentRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := eventbrite.NewClient("test-token", zap.NewNop()).
		WithBaseURL(server.URL).
		WithBackoff(0)

	_, err := client.FetchOrgEvents(context.Background(), "org1", time.Now(), time.Now())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "http 429")
}

func TestFetchAbortsOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			fmt.Fprint(w, `{"pagination":{"has_more_items":true},"events":[{"id":"1"}]}`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := eventbrite.NewClient("test-token", zap.NewNop()).WithBaseURL(server.URL)

	// A mid-fetch failure returns no events at all, never a partial list.
	events, err := client.FetchOrgEvents(context.Background(), "org1", time.Now(), time.Now())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "http 500")
	assert.Nil(t, events)
}

func TestFetchStopsAtPageCeiling(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		// Upstream claims more pages forever.
		fmt.Fprint(w, `{"pagination":{"has_more_items":true},"events":[{"id":"1"}]}`)
	}))
	defer server.Close()

	client := eventbrite.NewClient("test-token", zap.NewNop()).WithBaseURL(server.URL)

	events, err := client.FetchOrgEvents(context.Background(), "org1", time.Now(), time.Now())
	require.NoError(t, err)
	assert.Len(t, events, 50)
	assert.Equal(t, int32(50), calls.Load())
}

func TestDetectOrganization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me/organizations/", r.URL.Path)
		fmt.Fprint(w, `{"organizations":[{"id":"org1","name":"Acme Events"},{"id":"org2","name":"Other"}]}`)
	}))
	defer server.Close()

	client := eventbrite.NewClient("test-token", zap.NewNop()).WithBaseURL(server.URL)

	id, name, err := client.DetectOrganization(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "org1", id)
	assert.Equal(t, "Acme Events", name)
}

func TestDetectOrganizationNoneFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"organizations":[]}`)
	}))
	defer server.Close()

	client := eventbrite.NewClient("test-token", zap.NewNop()).WithBaseURL(server.URL)

	_, _, err := client.DetectOrganization(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no organizations")
}

func TestSearchEventsSetsLocationParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/search/", r.URL.Path)
		assert.Equal(t, "New York", r.URL.Query().Get("location.address"))
		assert.Equal(t, "25km", r.URL.Query().Get("location.within"))
		fmt.Fprint(w, `{"pagination":{"has_more_items":false},"events":[]}`)
	}))
	defer server.Close()

	client := eventbrite.NewClient("test-token", zap.NewNop()).WithBaseURL(server.URL)

	_, err := client.SearchEvents(context.Background(), "New York", "", time.Now(), time.Now())
	assert.NoError(t, err)
}
