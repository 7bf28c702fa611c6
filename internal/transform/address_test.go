package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amscan/ordersync/internal/domain"
)

func header(line3, line4, line5 string) *domain.OrderHeader {
	return &domain.OrderHeader{
		DeliveryAddressLine1: "UNIT 4 WALTON SUMMIT CENTRE",
		DeliveryAddressLine2: "BAMBER BRIDGE",
		DeliveryAddressLine3: line3,
		DeliveryAddressLine4: line4,
		DeliveryAddressLine5: line5,
	}
}

func TestExtractCityPostcode_CityThenPostcodeLine(t *testing.T) {
	city, postcode := ExtractCityPostcode(header("HOGHTON", "PR5 0RA", "UNITED KINGDOM"))
	assert.Equal(t, "HOGHTON", city)
	assert.Equal(t, "PR5 0RA", postcode)
}

func TestExtractCityPostcode_EmbeddedInSingleLine(t *testing.T) {
	city, postcode := ExtractCityPostcode(header("PRESTON PR1 2AB", "", "UNITED KINGDOM"))
	assert.Equal(t, "PRESTON", city)
	assert.Equal(t, "PR1 2AB", postcode)
}

func TestExtractCityPostcode_PostcodeOnOwnLineUsesPrecedingLine(t *testing.T) {
	city, postcode := ExtractCityPostcode(header("WALTON SUMMIT", "PRESTON", "PR5 8AL"))
	assert.Equal(t, "PRESTON", city)
	assert.Equal(t, "PR5 8AL", postcode)
}

func TestExtractCityPostcode_NoPostcodeFallsBackToFirstLine(t *testing.T) {
	city, postcode := ExtractCityPostcode(header("LONDON", "UNITED KINGDOM", ""))
	assert.Equal(t, "LONDON", city)
	assert.Equal(t, "", postcode)
}

func TestExtractCityPostcode_CountryOnly(t *testing.T) {
	city, postcode := ExtractCityPostcode(header("UNITED KINGDOM", "", ""))
	assert.Equal(t, "", city)
	assert.Equal(t, "", postcode)
}

func TestExtractCityPostcode_AllEmpty(t *testing.T) {
	city, postcode := ExtractCityPostcode(header("", "", ""))
	assert.Equal(t, "", city)
	assert.Equal(t, "", postcode)
}

func TestExtractCityPostcode_CountryCaseInsensitive(t *testing.T) {
	city, postcode := ExtractCityPostcode(header("CARDIFF", "CF10 2BX", "United Kingdom"))
	assert.Equal(t, "CARDIFF", city)
	assert.Equal(t, "CF10 2BX", postcode)
}

func TestExtractCityPostcode_LowercasePostcode(t *testing.T) {
	city, postcode := ExtractCityPostcode(header("HOGHTON", "pr5 0ra", ""))
	assert.Equal(t, "HOGHTON", city)
	assert.Equal(t, "pr5 0ra", postcode)
}

func TestDeliveryAddress(t *testing.T) {
	h := header("HOGHTON", "PR5 0RA", "UNITED KINGDOM")
	addr := DeliveryAddress(h)

	assert.Equal(t, "UNIT 4 WALTON SUMMIT CENTRE", addr.Line1)
	assert.Equal(t, "BAMBER BRIDGE", addr.Line2)
	assert.Equal(t, "HOGHTON", addr.City)
	assert.Equal(t, "PR5 0RA", addr.Postcode)
	assert.Equal(t, "GB", addr.Country)
}
