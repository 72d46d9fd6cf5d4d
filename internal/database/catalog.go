package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"homeserv/internal/models"
)

// Catalog rows (properties, owners, providers) are lookup-only
// back-references for the booking core; full CRUD lives elsewhere.

func (db *DB) CreateProperty(ctx context.Context, p *models.Property) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO properties (title, location, nightly_price, owner_id, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Location, p.NightlyPrice, p.OwnerID, p.IsActive, now, now)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (db *DB) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	p := &models.Property{}
	err := db.QueryRowContext(ctx,
		`SELECT id, title, location, nightly_price, owner_id, is_active, created_at, updated_at
		 FROM properties WHERE id = ?`, id).
		Scan(&p.ID, &p.Title, &p.Location, &p.NightlyPrice, &p.OwnerID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return p, nil
}

func (db *DB) CreateOwner(ctx context.Context, o *models.Owner) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO owners (name, phone, email, created_at) VALUES (?, ?, ?, ?)`,
		o.Name, o.Phone, o.Email, now)
	if err != nil {
		return fmt.Errorf("failed to create owner: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	o.ID = id
	o.CreatedAt = now
	return nil
}

func (db *DB) GetOwner(ctx context.Context, id int64) (*models.Owner, error) {
	o := &models.Owner{}
	var email sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, phone, email, created_at FROM owners WHERE id = ?`, id).
		Scan(&o.ID, &o.Name, &o.Phone, &email, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	o.Email = email.String
	return o, nil
}

func (db *DB) CreateProvider(ctx context.Context, p *models.Provider) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO providers (name, service_category, phone, created_at) VALUES (?, ?, ?, ?)`,
		p.Name, p.ServiceCategory, p.Phone, now)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	return nil
}

func (db *DB) GetProvider(ctx context.Context, id int64) (*models.Provider, error) {
	p := &models.Provider{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, service_category, phone, created_at FROM providers WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.ServiceCategory, &p.Phone, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	return p, nil
}
