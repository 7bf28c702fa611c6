package commerce

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// catalogItem is one entry from the catalog search endpoint.
type catalogItem struct {
	ItemID string `json:"itemId"`
	SKU    string `json:"sku"`
}

type catalogSearchResponse struct {
	Data []catalogItem `json:"data"`
}

// CatalogService resolves product codes (SKUs) to catalog item ids.
// Resolutions are cached: the catalog changes rarely relative to how often
// the same SKUs recur across order files.
type CatalogService struct {
	client *Client
	cache  *gocache.Cache
}

func NewCatalogService(client *Client) *CatalogService {
	return &CatalogService{
		client: client,
		cache:  gocache.New(30*time.Minute, 10*time.Minute),
	}
}

// ResolveSKUs looks up a batch of product codes. The returned map is keyed by
// normalised (lower-cased, trimmed) code; unknown codes are absent, which is
// not an error. Callers batch into chunks; this issues one request per call.
func (s *CatalogService) ResolveSKUs(ctx context.Context, codes []string) (map[string]string, error) {
	resolved := make(map[string]string, len(codes))
	var misses []string

	for _, code := range codes {
		key := normalise(code)
		if key == "" {
			continue
		}
		if id, ok := s.cache.Get(key); ok {
			resolved[key] = id.(string)
			continue
		}
		misses = append(misses, key)
	}

	if len(misses) == 0 {
		return resolved, nil
	}

	query := url.Values{}
	query.Set("skus", strings.Join(misses, ","))

	var resp catalogSearchResponse
	if err := s.client.Do(ctx, http.MethodGet, "/v1/catalog/items", query, nil, &resp); err != nil {
		return nil, fmt.Errorf("catalog search (%d codes): %w", len(misses), err)
	}

	for _, item := range resp.Data {
		key := normalise(item.SKU)
		if key == "" || item.ItemID == "" {
			continue
		}
		resolved[key] = item.ItemID
		s.cache.SetDefault(key, item.ItemID)
	}

	return resolved, nil
}

func normalise(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
