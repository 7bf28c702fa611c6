package edi

import (
	"errors"
	"strconv"
	"strings"

	"github.com/amscan/ordersync/internal/domain"
)

// ErrInvalidInput reports a contract violation: the caller handed the parser
// something that is not parseable text (empty input, or a nil callback).
var ErrInvalidInput = errors.New("edi: invalid input")

const (
	recordTypeHeader = "soheader"
	recordTypeDetail = "sodetail"
)

// IsOrderFile reports whether a file looks like an Amscan order export:
// either the name marks it as an import, or the content carries order
// records. Files failing this check are not an error, they simply hold
// nothing to submit.
func IsOrderFile(fileName, content string) bool {
	return strings.Contains(fileName, "import") ||
		strings.Contains(content, recordTypeHeader+"~") ||
		strings.Contains(content, recordTypeDetail+"~")
}

// Parse walks the tilde-delimited order file and invokes emit once per
// completed order group, preserving input order of headers and items.
//
// A group is complete when a new soheader begins (and the previous header
// accumulated at least one item) or at end of input. A header with zero
// items is discarded; sodetail lines before any header are ignored, as are
// unrecognised record types. CRLF and LF line endings are both accepted.
func Parse(content string, emit func(group domain.OrderGroup) error) error {
	if content == "" {
		return ErrInvalidInput
	}
	if emit == nil {
		return ErrInvalidInput
	}

	var (
		header *domain.OrderHeader
		items  []domain.OrderLineItem
	)

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		fields := strings.Split(line, "~")
		switch fields[0] {
		case recordTypeHeader:
			if header != nil && len(items) > 0 {
				if err := emit(domain.OrderGroup{Header: header, Items: items}); err != nil {
					return err
				}
			}
			header = parseHeader(fields)
			items = nil

		case recordTypeDetail:
			if header == nil {
				// Detail line with no owning order; drop it.
				continue
			}
			items = append(items, parseDetail(fields))
		}
	}

	if header != nil && len(items) > 0 {
		return emit(domain.OrderGroup{Header: header, Items: items})
	}
	return nil
}

// ParseAll is Parse collecting every group into a slice.
func ParseAll(content string) ([]domain.OrderGroup, error) {
	var groups []domain.OrderGroup
	err := Parse(content, func(g domain.OrderGroup) error {
		groups = append(groups, g)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func parseHeader(fields []string) *domain.OrderHeader {
	h := &domain.OrderHeader{
		RecordType:              field(fields, 0),
		OrderID:                 field(fields, 1),
		CustomerAccount:         field(fields, 2),
		SalesRepCode:            field(fields, 3),
		DiscountPercentage:      numField(fields, 4),
		OrderValue:              numField(fields, 5),
		DueDate:                 field(fields, 6),
		OrderDate:               field(fields, 7),
		SeasonCode:              field(fields, 8),
		StatusCode:              field(fields, 9),
		DeliveryName:            field(fields, 10),
		DeliveryAddressLine1:    field(fields, 11),
		DeliveryAddressLine2:    field(fields, 12),
		DeliveryAddressLine3:    field(fields, 13),
		DeliveryAddressLine4:    field(fields, 14),
		DeliveryAddressLine5:    field(fields, 15),
		DeliveryAddressNumber:   field(fields, 16),
		CustomerReferenceNumber: field(fields, 17),
		GenericCode1:            field(fields, 18),
		Freetype1:               field(fields, 19),
		Freetype2:               field(fields, 20),
		Freetype3:               field(fields, 21),
		Disused:                 field(fields, 22),
		OrderType:               field(fields, 23),
		PriceList:               field(fields, 24),
		NoteDate:                field(fields, 25),
		GenericCode18:           field(fields, 26),
		GenericCode19:           field(fields, 27),
		GenericCode20:           field(fields, 28),
		GenericCode21:           field(fields, 29),
		GenericCode22:           field(fields, 30),
		GenericCode23:           field(fields, 31),
		Freetype4:               field(fields, 32),
		Freetype5:               field(fields, 33),
		ManualAddress:           field(fields, 34),
		OrderTimestamp:          field(fields, 35),
		PriceCode:               field(fields, 36),
		TemplateID:              field(fields, 37),
		PostOrderDiscount:       numField(fields, 38),
		SignatureName:           field(fields, 39),
		SignatureTimestamp:      field(fields, 40),
		LocationCode:            field(fields, 41),
		TermsCode:               field(fields, 42),
		ConfirmationEmail:       field(fields, 43),
		PromotionCode:           field(fields, 44),
		Weight:                  field(fields, 45),
		Volume:                  field(fields, 46),
		DespatchAdvice:          field(fields, 47),
		DespatchType:            field(fields, 48),
	}

	if len(h.DueDate) == 8 {
		h.DueDateFormatted = FormatDate(h.DueDate)
	}
	if len(h.OrderDate) == 8 {
		h.OrderDateFormatted = FormatDate(h.OrderDate)
	}

	return h
}

func parseDetail(fields []string) domain.OrderLineItem {
	li := domain.OrderLineItem{
		RecordType:             field(fields, 0),
		ProductCode:            field(fields, 1),
		Description:            field(fields, 2),
		QuantityOrdered:        numField(fields, 3),
		LineValue:              numField(fields, 4),
		LineDiscountPercentage: numField(fields, 5),
		GenericCode2:           field(fields, 6),
		Freetype1:              field(fields, 7),
		UnitPrice:              numField(fields, 8),
		PriceDiscountSource:    field(fields, 9),
		LineDueDate:            field(fields, 10),
		LocationCode:           field(fields, 11),
		PostOrderDiscount:      field(fields, 12),
		UnitCode:               field(fields, 13),
		Ratio:                  field(fields, 14),
		PriceAdjustmentCode:    field(fields, 15),
		GenericCode25:          field(fields, 16),
		GenericCode26:          field(fields, 17),
		Freetype2:              field(fields, 18),
		NettPrice:              field(fields, 19),
		TemplateID:             field(fields, 20),
		BuyPromoID:             field(fields, 21),
		GetPromoID:             field(fields, 22),
	}

	if len(li.LineDueDate) == 8 {
		li.LineDueDateFormatted = FormatDate(li.LineDueDate)
	}

	// Derive a line value when the export left it blank but gave us enough
	// to compute one.
	if li.LineValue == 0 && li.QuantityOrdered != 0 && li.UnitPrice != 0 {
		li.CalculatedLineValue = li.QuantityOrdered * li.UnitPrice
	}

	return li
}

// FormatDate reformats an 8-digit YYYYMMDD string as DD/MM/YYYY. Anything
// that is not exactly 8 characters passes through unchanged.
func FormatDate(s string) string {
	if len(s) != 8 {
		return s
	}
	return s[6:8] + "/" + s[4:6] + "/" + s[0:4]
}

// field returns fields[i], or "" when the line ended before position i.
// Trailing empty fields may legitimately be omitted on the wire.
func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return fields[i]
}

// numField parses fields[i] as a float, defaulting to 0 when the position is
// absent or not numeric.
func numField(fields []string, i int) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(field(fields, i)), 64)
	if err != nil {
		return 0
	}
	return v
}
