package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amscan/ordersync/internal/domain"
	"github.com/amscan/ordersync/internal/transform"
)

type fakeCatalog struct {
	known map[string]string
}

func (f *fakeCatalog) ResolveSKUs(ctx context.Context, codes []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, c := range codes {
		if id, ok := f.known[c]; ok {
			out[c] = id
		}
	}
	return out, nil
}

type fakeCustomers struct {
	id    string
	err   error
	calls int
}

func (f *fakeCustomers) Resolve(ctx context.Context, h *domain.OrderHeader) (string, error) {
	f.calls++
	return f.id, f.err
}

type fakeOrders struct {
	existing  map[string]bool
	createErr error
	created   []*domain.ReconciledOrder
}

func (f *fakeOrders) ExistsByReference(ctx context.Context, ref string) (bool, error) {
	return f.existing[ref], nil
}

func (f *fakeOrders) Create(ctx context.Context, order *domain.ReconciledOrder) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, order)
	return nil
}

// orderFile builds a minimal two-order file with the given product codes.
func orderFile(refs []string, codes []string) string {
	var lines []string
	for i, ref := range refs {
		h := make([]string, 49)
		h[0] = "soheader"
		h[1] = "SO" + ref
		h[2] = "ACCT1"
		h[10] = "TEST CUSTOMER"
		h[17] = ref
		lines = append(lines, strings.Join(h, "~"))

		d := make([]string, 23)
		d[0] = "sodetail"
		d[1] = codes[i]
		d[3] = "2"
		d[4] = "10.00"
		d[8] = "5.00"
		lines = append(lines, strings.Join(d, "~"))
	}
	return strings.Join(lines, "\n")
}

func newTestProcessor(customers *fakeCustomers, orders *fakeOrders, catalog *fakeCatalog) *Processor {
	builder := transform.NewBuilder(catalog)
	return NewProcessor(customers, orders, builder)
}

func TestProcessFile_SubmitsOrders(t *testing.T) {
	customers := &fakeCustomers{id: "cust-1"}
	orders := &fakeOrders{existing: map[string]bool{}}
	catalog := &fakeCatalog{known: map[string]string{"194990": "item-1", "231405": "item-2"}}
	p := newTestProcessor(customers, orders, catalog)

	content := orderFile([]string{"REF1", "REF2"}, []string{"194990", "231405"})
	result, err := p.ProcessFile(context.Background(), "order_import_01.txt", content)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Orders)
	assert.Equal(t, 2, result.Submitted)
	assert.Zero(t, result.AlreadyExisted)
	assert.False(t, result.HasWarnings())
	require.Len(t, orders.created, 2)
	assert.Equal(t, "cust-1", orders.created[0].Customer.CustomerID)
}

func TestProcessFile_NotOrderFile(t *testing.T) {
	customers := &fakeCustomers{id: "cust-1"}
	orders := &fakeOrders{existing: map[string]bool{}}
	p := newTestProcessor(customers, orders, &fakeCatalog{})

	result, err := p.ProcessFile(context.Background(), "notes.txt", "just some text")
	require.NoError(t, err)
	assert.True(t, result.NotOrderFile)
	assert.Zero(t, result.Orders)
	assert.Zero(t, customers.calls)
}

func TestProcessFile_ExistingOrderSkipped(t *testing.T) {
	customers := &fakeCustomers{id: "cust-1"}
	orders := &fakeOrders{existing: map[string]bool{"REF1": true}}
	catalog := &fakeCatalog{known: map[string]string{"194990": "item-1", "231405": "item-2"}}
	p := newTestProcessor(customers, orders, catalog)

	content := orderFile([]string{"REF1", "REF2"}, []string{"194990", "231405"})
	result, err := p.ProcessFile(context.Background(), "order_import_01.txt", content)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Orders)
	assert.Equal(t, 1, result.Submitted)
	assert.Equal(t, 1, result.AlreadyExisted)
	// The existing order never triggers customer resolution.
	assert.Equal(t, 1, customers.calls)
}

func TestProcessFile_CustomerFailureFailsFile(t *testing.T) {
	boom := errors.New("customer api down")
	customers := &fakeCustomers{err: boom}
	orders := &fakeOrders{existing: map[string]bool{}}
	catalog := &fakeCatalog{known: map[string]string{"194990": "item-1"}}
	p := newTestProcessor(customers, orders, catalog)

	content := orderFile([]string{"REF1"}, []string{"194990"})
	_, err := p.ProcessFile(context.Background(), "order_import_01.txt", content)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, orders.created)
}

func TestProcessFile_SubmitFailureFailsFile(t *testing.T) {
	customers := &fakeCustomers{id: "cust-1"}
	orders := &fakeOrders{existing: map[string]bool{}, createErr: errors.New("rejected")}
	catalog := &fakeCatalog{known: map[string]string{"194990": "item-1"}}
	p := newTestProcessor(customers, orders, catalog)

	content := orderFile([]string{"REF1"}, []string{"194990"})
	_, err := p.ProcessFile(context.Background(), "order_import_01.txt", content)
	assert.Error(t, err)
}

func TestProcessFile_NoResolvableItemsFailsFile(t *testing.T) {
	customers := &fakeCustomers{id: "cust-1"}
	orders := &fakeOrders{existing: map[string]bool{}}
	p := newTestProcessor(customers, orders, &fakeCatalog{known: map[string]string{}})

	content := orderFile([]string{"REF1"}, []string{"999999"})
	_, err := p.ProcessFile(context.Background(), "order_import_01.txt", content)
	assert.ErrorIs(t, err, transform.ErrNoResolvableItems)
}

func TestProcessFile_AccumulatesMissingSkus(t *testing.T) {
	customers := &fakeCustomers{id: "cust-1"}
	orders := &fakeOrders{existing: map[string]bool{}}
	catalog := &fakeCatalog{known: map[string]string{"194990": "item-1"}}
	p := newTestProcessor(customers, orders, catalog)

	// Two items in one order, one unknown code.
	h := make([]string, 49)
	h[0] = "soheader"
	h[1] = "SO1"
	h[2] = "ACCT1"
	h[17] = "REF1"
	d1 := make([]string, 23)
	d1[0] = "sodetail"
	d1[1] = "194990"
	d1[3] = "1"
	d1[4] = "5.00"
	d2 := make([]string, 23)
	d2[0] = "sodetail"
	d2[1] = "999999"
	d2[3] = "1"
	d2[4] = "5.00"
	content := strings.Join([]string{
		strings.Join(h, "~"), strings.Join(d1, "~"), strings.Join(d2, "~"),
	}, "\n")

	result, err := p.ProcessFile(context.Background(), "order_import_01.txt", content)
	require.NoError(t, err)
	assert.Equal(t, []string{"999999"}, result.MissingSkus)
	assert.True(t, result.HasWarnings())
}
