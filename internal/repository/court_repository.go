// Package repository contains data access logic for the booking
// domain. This file covers courts and their related records. All
// queries exclude soft-deleted rows.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hoangnm/sports-booking/internal/model"
)

// CourtRepo manages persistence for courts.
type CourtRepo struct {
	db *sql.DB
}

// NewCourtRepo returns a new CourtRepo bound to the provided database.
func NewCourtRepo(db *sql.DB) *CourtRepo { return &CourtRepo{db: db} }

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories.
func (r *CourtRepo) DB() *sql.DB { return r.db }

// GetByID fetches one live court. Returns ErrCourtNotFound when the id
// matches nothing or the court is soft-deleted.
func (r *CourtRepo) GetByID(ctx context.Context, id uint64) (*model.Court, error) {
	const q = `SELECT id, sports_center_id, category_id, name, price, discount, is_vip, attributes, is_deleted, created_at, updated_at
	           FROM courts WHERE id = ? AND is_deleted = 0`
	var c model.Court
	var attrs sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.SportsCenterID, &c.CategoryID, &c.Name, &c.Price,
		&c.Discount, &c.IsVIP, &attrs, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, err
	}
	if attrs.Valid {
		c.Attributes = []byte(attrs.String)
	}
	return &c, nil
}

// GetDetail fetches a court together with its category, amenities,
// images and owning sports center — the aggregate the court-detail
// endpoint and the realtime payload serve. Returns ErrCourtNotFound
// when the court does not exist.
func (r *CourtRepo) GetDetail(ctx context.Context, id uint64) (*model.CourtDetail, error) {
	court, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &model.CourtDetail{Court: *court}

	const catQ = `SELECT id, type, description, image_url FROM categories WHERE id = ?`
	var cat model.Category
	err = r.db.QueryRowContext(ctx, catQ, court.CategoryID).Scan(&cat.ID, &cat.Type, &cat.Description, &cat.ImageURL)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		detail.Category = &cat
	}

	const centerQ = `SELECT id, name, address, status, view, latitude, longitude, is_deleted, created_at, updated_at
	                 FROM sports_centers WHERE id = ?`
	var sc model.SportsCenter
	err = r.db.QueryRowContext(ctx, centerQ, court.SportsCenterID).Scan(
		&sc.ID, &sc.Name, &sc.Address, &sc.Status, &sc.View,
		&sc.Latitude, &sc.Longitude, &sc.IsDeleted, &sc.CreatedAt, &sc.UpdatedAt,
	)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		detail.SportsCenter = &sc
	}

	amenities, err := r.listAmenities(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Amenities = amenities

	images, err := r.listImages(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Images = images

	return detail, nil
}

func (r *CourtRepo) listAmenities(ctx context.Context, courtID uint64) ([]model.Amenity, error) {
	const q = `SELECT a.id, a.name, a.description, a.image_url
	           FROM amenities a
	           JOIN court_amenities ca ON ca.amenity_id = a.id
	           WHERE ca.court_id = ?
	           ORDER BY a.id`
	rows, err := r.db.QueryContext(ctx, q, courtID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Amenity{}
	for rows.Next() {
		var a model.Amenity
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *CourtRepo) listImages(ctx context.Context, courtID uint64) ([]model.CourtImage, error) {
	const q = `SELECT id, court_id, image_url FROM court_images WHERE court_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, courtID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.CourtImage{}
	for rows.Next() {
		var img model.CourtImage
		if err := rows.Scan(&img.ID, &img.CourtID, &img.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}
