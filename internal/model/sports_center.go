package model

import "time"

// SportsCenter represents a venue that owns one or more courts.  Its
// weekly opening hours bound the bookable slot grid of every court it
// contains.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – venue name.
//  Address   – street address.
//  Status    – whether the venue is currently operating.
//  View      – popularity counter shown in listings.
//  Latitude  – WGS84 latitude for map display.
//  Longitude – WGS84 longitude for map display.
//  IsDeleted – soft-delete flag.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type SportsCenter struct {
	ID        uint64    `json:"id"`        // sports_centers.id
	Name      string    `json:"name"`      // sports_centers.name
	Address   string    `json:"address"`   // sports_centers.address
	Status    bool      `json:"status"`    // sports_centers.status
	View      uint64    `json:"view"`      // sports_centers.view
	Latitude  float64   `json:"latitude"`  // sports_centers.latitude
	Longitude float64   `json:"longitude"` // sports_centers.longitude
	IsDeleted bool      `json:"isDeleted"` // sports_centers.is_deleted
	CreatedAt time.Time `json:"createdAt"` // sports_centers.created_at
	UpdatedAt time.Time `json:"updatedAt"` // sports_centers.updated_at
}
