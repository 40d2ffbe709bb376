package model

import "time"

// Hold is a short-lived claim on a court slot made by a user whose
// cart contains the slot but who has not paid yet.  Holds live only in
// the cache, carry a TTL and evict themselves; they are never written
// to the database.  Multiple holds may coexist for the same court-day,
// including overlapping ones — holds are advisory and the
// authoritative conflict check happens at checkout.
//
// Fields:
//  ID        – random identifier so identical cart entries stay distinct.
//  CourtID   – court being claimed.
//  Date      – play date in "2006-01-02" format.
//  StartTime – slot start, wall-clock "H:mm".
//  EndTime   – slot end, wall-clock "H:mm".
//  OwnerID   – user whose cart placed the hold.
//  PlacedAt  – when the hold was created.
type Hold struct {
	ID        string    `json:"id"`
	CourtID   uint64    `json:"courtId"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	OwnerID   uint64    `json:"ownerId"`
	PlacedAt  time.Time `json:"placedAt"`
}
