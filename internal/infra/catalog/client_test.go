package catalog

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testEndpoint = "https://catalog.example.com/api/books/9780132350884"

func newTestClient() *Client {
	cfg := ClientConfig{
		BaseURL: "https://catalog.example.com",
		Timeout: 5 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 3,
			WaitTime:    100 * time.Millisecond,
			MaxWaitTime: 500 * time.Millisecond,
		},
		CB: CBConfig{
			MaxRequests:  5,
			Interval:     60 * time.Second,
			Timeout:      15 * time.Second,
			FailureRatio: 0.6,
		},
	}
	client := New(cfg, zap.NewNop())

	// Activate httpmock for this client's HTTP transport
	httpmock.ActivateNonDefault(client.client.GetClient())

	return client
}

func TestLookup_Success(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewJsonResponderOrPanic(200, bookResponse{
			ISBN:       "9780132350884",
			PageCount:  464,
			CoverImage: "https://catalog.example.com/covers/9780132350884.jpg",
			Publisher:  "Prentice Hall",
		}))

	client := newTestClient()
	meta, err := client.Lookup(context.Background(), "9780132350884")

	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "9780132350884", meta.ISBN)
	assert.Equal(t, 464, meta.Pages)
	assert.Equal(t, "Prentice Hall", meta.Publisher)
}

// An unknown ISBN is a normal outcome, not an error.
func TestLookup_NotFound(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewStringResponder(404, "not found"))

	client := newTestClient()
	meta, err := client.Lookup(context.Background(), "9780132350884")

	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestLookup_ServerError(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewStringResponder(500, "Server Error"))

	client := newTestClient()
	meta, err := client.Lookup(context.Background(), "9780132350884")

	require.Error(t, err)
	assert.Nil(t, meta)
	assert.Contains(t, err.Error(), "status 500")
}

func TestLookup_CircuitBreakerOpens(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewStringResponder(500, "Internal Server Error"))

	client := newTestClient()

	for i := 0; i < 5; i++ {
		_, err := client.Lookup(context.Background(), "9780132350884")
		require.Error(t, err)
	}

	// CB should be open now and fail fast without an HTTP request.
	start := time.Now()
	_, err := client.Lookup(context.Background(), "9780132350884")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
	assert.Less(t, elapsed.Milliseconds(), int64(100))
}

func TestLookup_RetriesOn5xx(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	callCount := 0
	httpmock.RegisterResponder("GET", testEndpoint,
		func(_ *http.Request) (*http.Response, error) {
			callCount++
			if callCount < 3 {
				return httpmock.NewStringResponse(500, "Server Error"), nil
			}

			return httpmock.NewJsonResponse(200, bookResponse{ISBN: "9780132350884", PageCount: 464})
		})

	client := newTestClient()
	meta, err := client.Lookup(context.Background(), "9780132350884")

	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, 3, callCount, "should retry twice and succeed on 3rd attempt")
}

func TestName(t *testing.T) {
	client := newTestClient()
	defer httpmock.DeactivateAndReset()

	assert.Equal(t, "book_catalog", client.Name())
}

func TestHealthCheck(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://catalog.example.com/health",
		httpmock.NewStringResponder(200, "ok"))

	client := newTestClient()
	require.NoError(t, client.HealthCheck(context.Background()))

	httpmock.Reset()
	httpmock.RegisterResponder("GET", "https://catalog.example.com/health",
		httpmock.NewStringResponder(503, "down"))

	err := client.HealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}
