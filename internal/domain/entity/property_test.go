package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProperty_NormalizeImages(t *testing.T) {
	property := &Property{
		Images: []PropertyImage{
			{URL: "a.jpg", IsPrimary: true},
			{URL: "b.jpg", IsPrimary: true},
			{URL: "c.jpg", IsPrimary: true},
		},
	}

	property.NormalizeImages()

	assert.True(t, property.Images[0].IsPrimary)
	assert.False(t, property.Images[1].IsPrimary)
	assert.False(t, property.Images[2].IsPrimary)
}

func TestProperty_NormalizeImages_NoPrimary(t *testing.T) {
	property := &Property{
		Images: []PropertyImage{
			{URL: "a.jpg"},
			{URL: "b.jpg"},
		},
	}

	property.NormalizeImages()

	// No promotion happens; the read side falls back to the first image.
	assert.False(t, property.Images[0].IsPrimary)
	assert.Equal(t, "a.jpg", property.PrimaryImageURL())
}

func TestProperty_PrimaryImageURL(t *testing.T) {
	property := &Property{
		Images: []PropertyImage{
			{URL: "a.jpg"},
			{URL: "b.jpg", IsPrimary: true},
		},
	}

	assert.Equal(t, "b.jpg", property.PrimaryImageURL())

	empty := &Property{}
	assert.Empty(t, empty.PrimaryImageURL())
}

func TestProperty_FormattedPrice(t *testing.T) {
	price := 450000.0
	property := &Property{Price: &price, Currency: "USD"}
	assert.Equal(t, "USD 450000.00", property.FormattedPrice())

	unpriced := &Property{Currency: "USD"}
	assert.Empty(t, unpriced.FormattedPrice())
}

func TestProperty_FullAddress(t *testing.T) {
	property := &Property{
		Location: Location{
			Street:  "12 Jalan Besar",
			City:    "Johor Bahru",
			Country: "Malaysia",
		},
	}

	assert.Equal(t, "12 Jalan Besar, Johor Bahru, Malaysia", property.FullAddress())

	sparse := &Property{Location: Location{Country: "Malaysia"}}
	assert.Equal(t, "Malaysia", sparse.FullAddress())
}

func TestProperty_PriceOrZero(t *testing.T) {
	price := 100.0
	assert.Equal(t, 100.0, (&Property{Price: &price}).PriceOrZero())
	assert.Zero(t, (&Property{}).PriceOrZero())
}
