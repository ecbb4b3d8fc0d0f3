package entity

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// PropertyStatus is the sales state of a listing.
type PropertyStatus string

const (
	StatusAvailable PropertyStatus = "available"
	StatusSold      PropertyStatus = "sold"
	StatusRented    PropertyStatus = "rented"
	StatusPending   PropertyStatus = "pending"
	StatusInactive  PropertyStatus = "inactive"
)

// Valid reports whether the status is one of the known listing states.
func (s PropertyStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusSold, StatusRented, StatusPending, StatusInactive:
		return true
	default:
		return false
	}
}

// PropertyCategory is the structural category of a listing.
type PropertyCategory string

const (
	CategorySingleStory PropertyCategory = "Single Story"
	CategoryDoubleStory PropertyCategory = "Double Story"
)

// Valid reports whether the category is one of the known categories.
func (c PropertyCategory) Valid() bool {
	return c == CategorySingleStory || c == CategoryDoubleStory
}

// Property represents a real-estate listing.
type Property struct {
	ID          bson.ObjectID    `bson:"_id,omitempty" json:"id"`
	Title       string           `bson:"title" json:"title"`
	Description string           `bson:"description,omitempty" json:"description,omitempty"`
	Category    PropertyCategory `bson:"category" json:"category"`
	PropertyFor string           `bson:"propertyFor,omitempty" json:"propertyFor,omitempty"`
	Status      PropertyStatus   `bson:"status" json:"status"`

	// Price is optional; a listing may be published before pricing is settled.
	Price    *float64 `bson:"price,omitempty" json:"price,omitempty"`
	Currency string   `bson:"currency,omitempty" json:"currency,omitempty"`

	Location Location        `bson:"location" json:"location"`
	Features Features        `bson:"features" json:"features"`
	Images   []PropertyImage `bson:"images,omitempty" json:"images,omitempty"`

	// AgentID is the listing agent; OwnerID is the property owner. Both are
	// required and default to the creator.
	AgentID     bson.ObjectID   `bson:"agentId" json:"agentId"`
	OwnerID     bson.ObjectID   `bson:"ownerId" json:"ownerId"`
	FavoritedBy []bson.ObjectID `bson:"favoritedBy,omitempty" json:"favoritedBy,omitempty"`

	// AdditionalInfo carries free-form listing extensions. It is an explicit
	// open map rather than an untyped blob so it survives BSON round trips.
	AdditionalInfo map[string]any `bson:"additionalInfo,omitempty" json:"additionalInfo,omitempty"`

	Views     int64     `bson:"views" json:"views"`
	IsActive  bool      `bson:"isActive" json:"isActive"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Location is the address of a listing, with optional geocoordinates.
type Location struct {
	Street      string       `bson:"street,omitempty" json:"street,omitempty"`
	City        string       `bson:"city,omitempty" json:"city,omitempty"`
	State       string       `bson:"state,omitempty" json:"state,omitempty"`
	Country     string       `bson:"country,omitempty" json:"country,omitempty"`
	ZipCode     string       `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Features describes the physical attributes of a listing.
type Features struct {
	Bedrooms  int     `bson:"bedrooms" json:"bedrooms"`
	Bathrooms int     `bson:"bathrooms" json:"bathrooms"`
	Area      float64 `bson:"area" json:"area"`
	AreaUnit  string  `bson:"areaUnit,omitempty" json:"areaUnit,omitempty"`
	Floors    int     `bson:"floors,omitempty" json:"floors,omitempty"`
	Garages   int     `bson:"garages,omitempty" json:"garages,omitempty"`
	YearBuilt int     `bson:"yearBuilt,omitempty" json:"yearBuilt,omitempty"`
	Furnished bool    `bson:"furnished" json:"furnished"`
}

// PropertyImage is a single listing photo.
type PropertyImage struct {
	URL       string `bson:"url" json:"url"`
	Caption   string `bson:"caption,omitempty" json:"caption,omitempty"`
	IsPrimary bool   `bson:"isPrimary" json:"isPrimary"`
}

// NormalizeImages enforces the at-most-one-primary invariant: if more than one
// image is marked primary, the first stays primary and the rest are demoted.
// It must run before every save that touches the image list.
func (p *Property) NormalizeImages() {
	seenPrimary := false
	for i := range p.Images {
		if !p.Images[i].IsPrimary {
			continue
		}
		if seenPrimary {
			p.Images[i].IsPrimary = false
			continue
		}
		seenPrimary = true
	}
}

// PrimaryImageURL returns the URL of the primary image, falling back to the
// first image when none is marked primary. Empty when there are no images.
func (p *Property) PrimaryImageURL() string {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return p.Images[i].URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}

	return ""
}

// FormattedPrice renders the price with its currency, e.g. "USD 450000.00".
// Empty when no price is set.
func (p *Property) FormattedPrice() string {
	if p.Price == nil {
		return ""
	}
	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}

	return fmt.Sprintf("%s %.2f", currency, *p.Price)
}

// FullAddress joins the non-empty address parts with commas.
func (p *Property) FullAddress() string {
	parts := make([]string, 0, 5)
	for _, part := range []string{
		p.Location.Street, p.Location.City, p.Location.State,
		p.Location.Country, p.Location.ZipCode,
	} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, ", ")
}

// PriceOrZero returns the price, treating an unset price as 0 so revenue sums
// never add an undefined value.
func (p *Property) PriceOrZero() float64 {
	if p.Price == nil {
		return 0
	}

	return *p.Price
}
