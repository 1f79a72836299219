package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/utafrali/DermCareGo/internal/domain"
	apperrors "github.com/utafrali/DermCareGo/pkg/errors"
	"github.com/utafrali/DermCareGo/pkg/httpclient"
)

// HTTPDoer is the interface for executing HTTP requests. Both
// httpclient.Client and httpclient.CircuitBreakerClient satisfy it.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client resolves product IDs against the external product catalog.
type Client struct {
	httpClient HTTPDoer
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a catalog client. baseURL is the catalog root, e.g.
// "https://dummyjson.com".
func NewClient(httpClient HTTPDoer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// catalogProduct mirrors the subset of the catalog's product payload that
// gets snapshotted into recommendations.
type catalogProduct struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Resolve fetches every product ID from the catalog. Resolution is
// all-or-nothing: the first failed lookup cancels the remaining fetches and
// fails the whole call. Results preserve the input order.
func (c *Client) Resolve(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	products := make([]domain.Product, len(ids))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failErr  error
		failedID int64
	)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			p, err := c.fetchProduct(fetchCtx, id)
			if err != nil {
				mu.Lock()
				// Only the first failure is reported; sibling errors after
				// cancellation are just fallout from it.
				if failErr == nil {
					failErr, failedID = err, id
				}
				mu.Unlock()
				cancel()
				return
			}
			products[i] = *p
		}(i, id)
	}
	wg.Wait()

	if failErr != nil {
		c.logger.WarnContext(ctx, "product resolution failed",
			slog.Int64("product_id", failedID),
			slog.String("error", failErr.Error()),
		)
		if errors.Is(failErr, apperrors.ErrNotFound) {
			return nil, apperrors.ProductResolution(fmt.Sprintf("product %d not found in catalog", failedID))
		}
		return nil, apperrors.ProductResolution(fmt.Sprintf("could not resolve product %d", failedID))
	}

	return products, nil
}

func (c *Client) fetchProduct(ctx context.Context, id int64) (*domain.Product, error) {
	url := fmt.Sprintf("%s/products/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "catalog")
	}
	defer func() { _ = resp.Body.Close() }()

	var cp catalogProduct
	if err := json.NewDecoder(resp.Body).Decode(&cp); err != nil {
		return nil, fmt.Errorf("decode catalog product: %w", err)
	}

	return &domain.Product{
		ID:          cp.ID,
		Title:       cp.Title,
		Description: cp.Description,
		Price:       cp.Price,
	}, nil
}
