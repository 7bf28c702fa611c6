package transform

import (
	"regexp"
	"strings"

	"github.com/amscan/ordersync/internal/domain"
)

// ukPostcode matches the outward+inward UK postcode shape anywhere in a line.
var ukPostcode = regexp.MustCompile(`(?i)[A-Z]{1,2}\d{1,2}[A-Z]?\s*\d[A-Z]{2}`)

const countryLine = "UNITED KINGDOM"

// ExtractCityPostcode pulls a city and postcode out of the trailing delivery
// address lines (3-5). The export puts the locality somewhere in those three
// lines with no fixed position, so this is a heuristic: it prefers the
// "city line followed by a line carrying the postcode" shape, then a postcode
// embedded mid-line, then the first line that is not the country name.
// Lossy on purpose; downstream address quality checks expect exactly this
// fallback ordering.
func ExtractCityPostcode(h *domain.OrderHeader) (city, postcode string) {
	var cands []string
	for _, line := range []string{
		h.DeliveryAddressLine3,
		h.DeliveryAddressLine4,
		h.DeliveryAddressLine5,
	} {
		if t := strings.TrimSpace(line); t != "" {
			cands = append(cands, t)
		}
	}
	if len(cands) == 0 {
		return "", ""
	}

	// Drop the country designation; it is never the city.
	var lines []string
	for _, c := range cands {
		if !strings.EqualFold(c, countryLine) {
			lines = append(lines, c)
		}
	}

	// Two lines where the second carries the postcode: the first is the city.
	if len(lines) == 2 {
		if m := ukPostcode.FindString(lines[1]); m != "" {
			return lines[0], strings.TrimSpace(m)
		}
	}

	// Otherwise take the first line with an embedded postcode; whatever
	// precedes the match on that line is the city.
	for i, line := range lines {
		loc := ukPostcode.FindStringIndex(line)
		if loc == nil {
			continue
		}
		city = strings.TrimSpace(line[:loc[0]])
		if city == "" && i > 0 {
			city = lines[i-1]
		}
		return city, strings.TrimSpace(line[loc[0]:loc[1]])
	}

	// No postcode anywhere: first non-country line is the best city guess.
	for _, c := range cands {
		if !strings.EqualFold(c, countryLine) {
			return c, ""
		}
	}
	return "", ""
}

// DeliveryAddress assembles the payload address block from a header.
func DeliveryAddress(h *domain.OrderHeader) domain.Address {
	city, postcode := ExtractCityPostcode(h)
	return domain.Address{
		Line1:    h.DeliveryAddressLine1,
		Line2:    h.DeliveryAddressLine2,
		City:     city,
		Country:  domain.ShippingCountry,
		Postcode: postcode,
		Region:   "",
	}
}
