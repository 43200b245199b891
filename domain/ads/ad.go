package ads

import (
	"time"

	"github.com/google/uuid"
)

type AdType string

const (
	TypeItemsWanted      AdType = "IW"
	TypeItemsForSale     AdType = "IS"
	TypeAcademicServices AdType = "AS"
)

type Status string

const (
	StatusSold    Status = "SO"
	StatusNotSold Status = "NS"
	StatusDeleted Status = "DE"
)

// Categories and locations are two-letter codes chosen by the client;
// the backend treats them as opaque filter values.
type Ad struct {
	ID          uuid.UUID
	Title       string
	Description string
	Type        AdType
	Category    string
	Location    string
	Status      Status
	Price       *float64
	CreatedAt   time.Time
	OwnerID     string
	Images      []string
}

// Filter narrows an ad listing. Nil fields match everything.
type Filter struct {
	Category *string
	Location *string
	Status   *string
	MinPrice *float64
	MaxPrice *float64
}

// Matches reports whether the ad satisfies every set field of the filter.
// Deleted ads only show up when the filter asks for them by status.
func (f Filter) Matches(ad Ad) bool {
	if f.Status == nil && ad.Status == StatusDeleted {
		return false
	}
	if f.Category != nil && ad.Category != *f.Category {
		return false
	}
	if f.Location != nil && ad.Location != *f.Location {
		return false
	}
	if f.Status != nil && ad.Status != Status(*f.Status) {
		return false
	}
	if f.MinPrice != nil && (ad.Price == nil || *ad.Price < *f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && (ad.Price == nil || *ad.Price > *f.MaxPrice) {
		return false
	}
	return true
}
