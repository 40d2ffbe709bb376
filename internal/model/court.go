package model

import (
	"encoding/json"
	"time"
)

// Court represents a single bookable playing surface inside a sports
// center.  A court belongs to exactly one sports center and one
// category (badminton, futsal, tennis, ...).  Pricing is per slot.
//
// Fields:
//  ID             – primary key identifier.
//  SportsCenterID – sports center that owns the court.
//  CategoryID     – sport category of the court.
//  Name           – display name, unique within a center.
//  Price          – price per slot in the smallest currency unit.
//  Discount       – percentage discount applied at checkout.
//  IsVIP          – whether the court is a premium court.
//  Attributes     – free-form JSON attributes (floor type, lighting, ...).
//  IsDeleted      – soft-delete flag; deleted courts are not bookable.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Court struct {
	ID             uint64          `json:"id"`             // courts.id
	SportsCenterID uint64          `json:"sportsCenterId"` // courts.sports_center_id
	CategoryID     uint64          `json:"categoryId"`     // courts.category_id
	Name           string          `json:"name"`           // courts.name
	Price          uint64          `json:"price"`          // courts.price
	Discount       uint32          `json:"discount"`       // courts.discount
	IsVIP          bool            `json:"isVip"`          // courts.is_vip
	Attributes     json.RawMessage `json:"attributes"`     // courts.attributes (JSON column, may be null)
	IsDeleted      bool            `json:"isDeleted"`      // courts.is_deleted
	CreatedAt      time.Time       `json:"createdAt"`      // courts.created_at
	UpdatedAt      time.Time       `json:"updatedAt"`      // courts.updated_at
}

// Category classifies courts by sport.
type Category struct {
	ID          uint64 `json:"id"`          // categories.id
	Type        string `json:"type"`        // categories.type (e.g. "badminton")
	Description string `json:"description"` // categories.description
	ImageURL    string `json:"imageUrl"`    // categories.image_url
}

// Amenity is a facility offered alongside a court (parking, showers,
// equipment rental, ...).  Courts and amenities form a many-to-many
// relation through the court_amenities table.
type Amenity struct {
	ID          uint64 `json:"id"`          // amenities.id
	Name        string `json:"name"`        // amenities.name
	Description string `json:"description"` // amenities.description
	ImageURL    string `json:"imageUrl"`    // amenities.image_url
}

// CourtImage is one gallery photo of a court.
type CourtImage struct {
	ID       uint64 `json:"id"`       // court_images.id
	CourtID  uint64 `json:"courtId"`  // court_images.court_id
	ImageURL string `json:"imageUrl"` // court_images.image_url
}

// CourtDetail aggregates a court with its related records the way the
// court-detail endpoint and the realtime courtData payload present it.
// It is assembled by the repository layer from several queries.
type CourtDetail struct {
	Court
	Category     *Category     `json:"category,omitempty"`
	Amenities    []Amenity     `json:"amenities"`
	Images       []CourtImage  `json:"images"`
	SportsCenter *SportsCenter `json:"sportsCenter,omitempty"`
}
