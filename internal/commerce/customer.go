package commerce

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/amscan/ordersync/internal/domain"
	"github.com/amscan/ordersync/internal/transform"
)

var (
	// ErrCustomerCreationFailed means the create call succeeded at the HTTP
	// level but the response carried no customer id.
	ErrCustomerCreationFailed = errors.New("commerce: customer creation returned no id")

	// ErrNoCustomerID means the find-or-create sequence finished without
	// producing a usable customer id.
	ErrNoCustomerID = errors.New("commerce: no customer id after find-or-create")
)

// DefaultSettleDelay is how long to wait after creating a customer before
// trusting the returned id. The directory is eventually consistent; an order
// submitted against a brand-new id can otherwise race its own customer.
const DefaultSettleDelay = 5 * time.Second

type customerRecord struct {
	CustomerID string `json:"customerId"`
	Barcode    string `json:"barcode"`
}

type customerSearchResponse struct {
	Data []customerRecord `json:"data"`
}

type createCustomerRequest struct {
	Name    domain.PersonName `json:"name"`
	Address domain.Address    `json:"address"`
	Barcode string            `json:"barcode"`
}

// CustomerResolver finds or creates the commerce customer for an order
// header. Single attempt, no retries: a failed resolve fails the order and
// the source file is retried on a later cycle.
type CustomerResolver struct {
	client *Client

	// SettleDelay is the eventual-consistency wait applied after a create.
	// Tests inject zero.
	SettleDelay time.Duration
}

func NewCustomerResolver(client *Client) *CustomerResolver {
	return &CustomerResolver{client: client, SettleDelay: DefaultSettleDelay}
}

// Resolve returns the customer id for the header's account code, creating
// the customer when the directory has no match.
func (r *CustomerResolver) Resolve(ctx context.Context, h *domain.OrderHeader) (string, error) {
	query := url.Values{}
	query.Set("barcode", h.CustomerAccount)

	var search customerSearchResponse
	if err := r.client.Do(ctx, http.MethodGet, "/v1/customers", query, nil, &search); err != nil {
		return "", fmt.Errorf("customer search for account %s: %w", h.CustomerAccount, err)
	}

	var id string
	if len(search.Data) > 0 {
		id = search.Data[0].CustomerID
	}
	if id != "" {
		return id, nil
	}

	log.Printf("[commerce] No customer for account %s, creating", h.CustomerAccount)

	req := createCustomerRequest{
		Name:    domain.PersonName{Forename: h.DeliveryName, Surname: h.CustomerAccount},
		Address: transform.DeliveryAddress(h),
		Barcode: h.CustomerAccount,
	}

	var created customerRecord
	if err := r.client.Do(ctx, http.MethodPost, "/v1/customers", nil, req, &created); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w (account %s, status %d)", ErrCustomerCreationFailed, h.CustomerAccount, apiErr.Status)
		}
		return "", fmt.Errorf("customer create for account %s: %w", h.CustomerAccount, err)
	}
	if created.CustomerID == "" {
		return "", fmt.Errorf("%w (account %s)", ErrCustomerCreationFailed, h.CustomerAccount)
	}

	// Let the directory settle before anything reads the new id back.
	if r.SettleDelay > 0 {
		log.Printf("[commerce] Created customer %s, waiting %s for directory to settle",
			created.CustomerID, r.SettleDelay)
		select {
		case <-time.After(r.SettleDelay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	id = created.CustomerID
	if id == "" {
		return "", fmt.Errorf("%w (account %s)", ErrNoCustomerID, h.CustomerAccount)
	}
	return id, nil
}
