package commerce

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/amscan/ordersync/internal/domain"
)

// ErrSubmissionFailed means the commerce API rejected an order payload.
var ErrSubmissionFailed = errors.New("commerce: order submission rejected")

type orderSummary struct {
	OrderID           string `json:"orderId"`
	CustomerReference string `json:"customerReference"`
}

type orderSearchResponse struct {
	Data []orderSummary `json:"data"`
}

// OrderService submits reconciled orders and answers the idempotency
// pre-check used to avoid resubmitting an order that already exists.
type OrderService struct {
	client *Client
}

func NewOrderService(client *Client) *OrderService {
	return &OrderService{client: client}
}

// ExistsByReference reports whether the API already holds an order with the
// given customer reference. An empty reference never matches anything.
func (s *OrderService) ExistsByReference(ctx context.Context, customerReference string) (bool, error) {
	if customerReference == "" {
		return false, nil
	}

	query := url.Values{}
	query.Set("customerReference", customerReference)

	var resp orderSearchResponse
	if err := s.client.Do(ctx, http.MethodGet, "/v1/orders", query, nil, &resp); err != nil {
		return false, fmt.Errorf("order existence check for reference %s: %w", customerReference, err)
	}
	return len(resp.Data) > 0, nil
}

// Create submits one reconciled order.
func (s *OrderService) Create(ctx context.Context, order *domain.ReconciledOrder) error {
	if err := s.client.Do(ctx, http.MethodPost, "/v1/orders", nil, order, nil); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("%w (order %s, status %d): %s",
				ErrSubmissionFailed, order.SourceReferenceID, apiErr.Status, apiErr.Body)
		}
		return fmt.Errorf("submit order %s: %w", order.SourceReferenceID, err)
	}
	return nil
}
