package transform

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/amscan/ordersync/internal/domain"
)

// ErrNoResolvableItems means every line item's product code was missing from
// the catalog. Such an order must not be submitted.
var ErrNoResolvableItems = errors.New("transform: no line items resolved against catalog")

// DefaultChunkSize bounds how many distinct product codes go into a single
// catalog lookup request.
const DefaultChunkSize = 200

// CatalogLookup resolves product codes to catalog item ids. The returned map
// is keyed by normalised (lower-cased, trimmed) product code; codes the
// catalog does not know are simply absent.
type CatalogLookup interface {
	ResolveSKUs(ctx context.Context, codes []string) (map[string]string, error)
}

// Builder turns parsed order groups into API-ready payloads.
type Builder struct {
	Catalog   CatalogLookup
	ChunkSize int              // 0 means DefaultChunkSize
	Now       func() time.Time // nil means time.Now
}

func NewBuilder(catalog CatalogLookup) *Builder {
	return &Builder{Catalog: catalog}
}

// Build assembles a ReconciledOrder for one order group. customerID is the
// already-resolved commerce customer; sourceFile is recorded in metadata.
// Fails with ErrNoResolvableItems when no product code resolves.
func (b *Builder) Build(ctx context.Context, sourceFile string, g domain.OrderGroup, customerID string) (*domain.ReconciledOrder, error) {
	h := g.Header

	resolved, err := b.resolveCodes(ctx, g.Items)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog codes: %w", err)
	}

	var (
		items       []domain.ReconciledItem
		missingSkus []string
		skipped     []domain.SkippedItem
	)

	for i := range g.Items {
		li := &g.Items[i]
		id, ok := resolved[normalizeCode(li.ProductCode)]
		if !ok {
			missingSkus = append(missingSkus, li.ProductCode)
			skipped = append(skipped, domain.SkippedItem{
				ProductCode: li.ProductCode,
				Description: li.Description,
				Quantity:    li.QuantityOrdered,
			})
			continue
		}
		items = append(items, buildItem(li, id))
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w (order %s, %d items)", ErrNoResolvableItems, h.OrderID, len(g.Items))
	}

	if len(missingSkus) > 0 {
		log.Printf("[transform] Order %s: %d of %d items skipped (missing SKUs: %s)",
			h.OrderID, len(missingSkus), len(g.Items), strings.Join(missingSkus, ", "))
	}

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	addr := DeliveryAddress(h)
	name := domain.PersonName{Forename: h.DeliveryName, Surname: h.CustomerAccount}

	order := &domain.ReconciledOrder{
		CreatedAt:         now().UTC().Format(time.RFC3339),
		Currency:          domain.OrderCurrency,
		Stage:             domain.OrderStage,
		SourceType:        domain.OrderSourceType,
		SourceReferenceID: h.OrderID,
		SourceID:          domain.OrderSourceID,
		CustomerReference: h.CustomerReferenceNumber,
		Shipping: domain.ShippingBlock{
			Name:    name,
			Address: addr,
			Option:  domain.ShippingOption,
			Cost:    0,
			Tax:     0,
		},
		Customer: domain.CustomerBlock{
			CustomerID: customerID,
			Name:       name,
			Address:    addr,
		},
		Items: items,
		Metadata: domain.OrderMetadata{
			SourceFile:        sourceFile,
			MissingSkus:       missingSkus,
			SkippedItemsCount: len(skipped),
			SkippedItems:      skipped,
		},
	}

	return order, nil
}

// resolveCodes batches the distinct product codes through the catalog in
// chunks and merges the results.
func (b *Builder) resolveCodes(ctx context.Context, items []domain.OrderLineItem) (map[string]string, error) {
	chunkSize := b.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	seen := make(map[string]bool)
	var codes []string
	for i := range items {
		code := normalizeCode(items[i].ProductCode)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}

	resolved := make(map[string]string, len(codes))
	for start := 0; start < len(codes); start += chunkSize {
		end := start + chunkSize
		if end > len(codes) {
			end = len(codes)
		}
		chunk, err := b.Catalog.ResolveSKUs(ctx, codes[start:end])
		if err != nil {
			return nil, err
		}
		for code, id := range chunk {
			resolved[normalizeCode(code)] = id
		}
	}

	return resolved, nil
}

func buildItem(li *domain.OrderLineItem, catalogID string) domain.ReconciledItem {
	lineValue := li.EffectiveLineValue()

	var displayPrice float64
	if li.QuantityOrdered != 0 {
		displayPrice = Round4(lineValue / li.QuantityOrdered)
	}

	return domain.ReconciledItem{
		ItemID:         catalogID,
		SKU:            li.ProductCode,
		Quantity:       li.QuantityOrdered,
		Price:          displayPrice,
		Discount:       Round4(li.UnitPrice - displayPrice),
		LineDiscount:   Round4(li.UnitPrice*li.QuantityOrdered - lineValue),
		LinePrice:      Round4(lineValue),
		LineTotal:      Round4(lineValue),
		Tax:            0,
		TaxRate:        0,
		FulfilmentType: domain.FulfilmentDelivery,
	}
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
