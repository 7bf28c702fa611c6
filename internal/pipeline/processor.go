// Package pipeline turns one downloaded file into submitted orders. It is
// the processing side of the dispatcher hand-off: the orchestrator stays
// concerned with files, this package with the orders inside them.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/amscan/ordersync/internal/domain"
	"github.com/amscan/ordersync/internal/edi"
	"github.com/amscan/ordersync/internal/transform"
)

// CustomerResolver finds or creates the commerce customer for a header.
type CustomerResolver interface {
	Resolve(ctx context.Context, h *domain.OrderHeader) (string, error)
}

// OrderSubmitter is the commerce order surface the pipeline needs.
type OrderSubmitter interface {
	ExistsByReference(ctx context.Context, customerReference string) (bool, error)
	Create(ctx context.Context, order *domain.ReconciledOrder) error
}

// Result summarises one successfully processed file.
type Result struct {
	FileName       string   `json:"fileName"`
	Orders         int      `json:"orders"`
	Submitted      int      `json:"submitted"`
	AlreadyExisted int      `json:"alreadyExisted"`
	MissingSkus    []string `json:"missingSkus,omitempty"`
	NotOrderFile   bool     `json:"notOrderFile,omitempty"`
}

// HasWarnings reports whether the file succeeded but dropped line items.
func (r *Result) HasWarnings() bool {
	return len(r.MissingSkus) > 0
}

// Processor runs the parse → resolve → transform → submit pipeline for one
// file at a time.
type Processor struct {
	customers CustomerResolver
	orders    OrderSubmitter
	builder   *transform.Builder
}

func NewProcessor(customers CustomerResolver, orders OrderSubmitter, builder *transform.Builder) *Processor {
	return &Processor{customers: customers, orders: orders, builder: builder}
}

// ProcessFile ingests one file's content. The verdict is all-or-nothing per
// file: any failed order fails the whole file so the orchestrator leaves it
// on the server for a later cycle. Orders already known to the commerce API
// (matching customerReference) are skipped and still count as success.
func (p *Processor) ProcessFile(ctx context.Context, fileName, content string) (*Result, error) {
	result := &Result{FileName: fileName}

	if !edi.IsOrderFile(fileName, content) {
		// Nothing to submit; the file is not an order export.
		log.Printf("[pipeline] %s is not an order file, nothing to do", fileName)
		result.NotOrderFile = true
		return result, nil
	}

	err := edi.Parse(content, func(g domain.OrderGroup) error {
		result.Orders++
		return p.processOrder(ctx, fileName, g, result)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[pipeline] %s: %d orders (%d submitted, %d already existed, %d missing SKUs)",
		fileName, result.Orders, result.Submitted, result.AlreadyExisted, len(result.MissingSkus))
	return result, nil
}

func (p *Processor) processOrder(ctx context.Context, fileName string, g domain.OrderGroup, result *Result) error {
	h := g.Header

	// Idempotency pre-check: an order with this customer reference already
	// present server-side must not be resubmitted, but still counts as a
	// success for the file verdict.
	exists, err := p.orders.ExistsByReference(ctx, h.CustomerReferenceNumber)
	if err != nil {
		return fmt.Errorf("order %s: %w", h.OrderID, err)
	}
	if exists {
		log.Printf("[pipeline] Order %s (reference %s) already exists, skipping submission",
			h.OrderID, h.CustomerReferenceNumber)
		result.AlreadyExisted++
		return nil
	}

	customerID, err := p.customers.Resolve(ctx, h)
	if err != nil {
		return fmt.Errorf("order %s: %w", h.OrderID, err)
	}

	order, err := p.builder.Build(ctx, fileName, g, customerID)
	if err != nil {
		return fmt.Errorf("order %s: %w", h.OrderID, err)
	}

	if err := p.orders.Create(ctx, order); err != nil {
		return fmt.Errorf("order %s: %w", h.OrderID, err)
	}

	result.Submitted++
	result.MissingSkus = append(result.MissingSkus, order.Metadata.MissingSkus...)
	return nil
}
