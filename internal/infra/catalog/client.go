package catalog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"qayeem-service/internal/domain"
)

// lookupEndpoint is the API path for ISBN lookups, relative to the
// configured base URL.
const lookupEndpoint = "/api/books/{isbn}"

// Client implements domain.MetadataProvider against an HTTP book catalog.
type Client struct {
	name   string
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a new metadata client.
func New(cfg ClientConfig, logger *zap.Logger) *Client {
	return &Client{
		name:   "book_catalog",
		client: newRestyClient(cfg),
		cb:     newCircuitBreaker[*resty.Response]("book_catalog", cfg.CB),
		logger: logger,
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return c.name
}

// Lookup fetches metadata for one ISBN. An unknown ISBN is not an error;
// it returns (nil, nil) so the sync loop can move on.
func (c *Client) Lookup(ctx context.Context, isbn string) (*domain.BookMetadata, error) {
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		var result bookResponse
		r, err := c.client.R().
			SetContext(ctx).
			SetPathParam("isbn", isbn).
			SetResult(&result).
			Get(lookupEndpoint)
		if err != nil {
			return nil, err
		}
		if r.StatusCode() == http.StatusNotFound {
			return r, nil
		}
		if r.IsError() {
			return nil, fmt.Errorf("book_catalog returned status %d", r.StatusCode())
		}

		return r, nil
	})

	if err != nil {
		c.logger.Warn("book_catalog lookup failed",
			zap.String("isbn", isbn),
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		return nil, fmt.Errorf("looking up isbn %s: %w", isbn, err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		c.logger.Debug("book_catalog unknown isbn",
			zap.String("isbn", isbn),
		)

		return nil, nil
	}

	result := resp.Result().(*bookResponse)

	return result.ToDomain(), nil
}

// HealthCheck verifies the catalog is accessible.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/health")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned status %d", resp.StatusCode())
	}

	return nil
}

// bookResponse represents the catalog's JSON response for one ISBN.
type bookResponse struct {
	ISBN       string `json:"isbn"`
	PageCount  int    `json:"page_count"`
	CoverImage string `json:"cover_image"`
	Publisher  string `json:"publisher"`
}

// ToDomain converts bookResponse to domain.BookMetadata.
func (r *bookResponse) ToDomain() *domain.BookMetadata {
	return &domain.BookMetadata{
		ISBN:       r.ISBN,
		Pages:      r.PageCount,
		CoverImage: r.CoverImage,
		Publisher:  r.Publisher,
	}
}
