package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"Seabed/internal/calc/soil"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id       SERIAL PRIMARY KEY,
	login    TEXT UNIQUE NOT NULL,
	email    TEXT NOT NULL,
	password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS soil_profiles (
	id         UUID PRIMARY KEY,
	owner_id   INTEGER NOT NULL REFERENCES users(id),
	name       TEXT NOT NULL,
	soil_type  TEXT NOT NULL,
	rows       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE (owner_id, name)
);
CREATE TABLE IF NOT EXISTS design_runs (
	id         UUID PRIMARY KEY,
	owner_id   INTEGER NOT NULL REFERENCES users(id),
	kind       TEXT NOT NULL,
	request    JSONB NOT NULL,
	result     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`

// uniqueViolation is the Postgres SQLSTATE for a unique constraint.
const uniqueViolation = "23505"

// Open connects to Postgres and checks the connection. TLS is required
// unless the DSN says otherwise.
func Open(ctx context.Context, connStr string) (*sql.DB, error) {
	if !strings.Contains(connStr, "sslmode=") {
		if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
			connStr = connStr + "?sslmode=require"
		} else {
			connStr = connStr + " sslmode=require"
		}
	}
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("repo: open: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("repo: ping: %w", err)
	}
	return db, nil
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return mapErr(err)
}

func mapErr(err error) error {
	var pqErr *pq.Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case errors.As(err, &pqErr) && pqErr.Code == uniqueViolation:
		return fmt.Errorf("%w: %s", ErrExists, pqErr.Constraint)
	}
	return err
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, mapErr(err)
}

func (r *PostgresRepository) GetBylogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"
	if err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash); err != nil {
		return 0, "", mapErr(err)
	}
	return id, hash, nil
}

func (r *PostgresRepository) SaveSoilProfile(ctx context.Context, p SoilProfile) (SoilProfile, error) {
	rows, err := json.Marshal(p.Table.Rows)
	if err != nil {
		return SoilProfile{}, err
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	query := `INSERT INTO soil_profiles (id, owner_id, name, soil_type, rows, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.db.ExecContext(ctx, query, p.ID, p.OwnerID, p.Name, string(p.Table.SoilType), rows, p.CreatedAt)
	if err != nil {
		return SoilProfile{}, mapErr(err)
	}
	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (SoilProfile, error) {
	var (
		p        SoilProfile
		soilType string
		rows     []byte
	)
	if err := s.Scan(&p.ID, &p.OwnerID, &p.Name, &soilType, &rows, &p.CreatedAt); err != nil {
		return SoilProfile{}, mapErr(err)
	}
	p.Table.SoilType = soil.Type(soilType)
	if err := json.Unmarshal(rows, &p.Table.Rows); err != nil {
		return SoilProfile{}, fmt.Errorf("repo: profile %s rows: %w", p.ID, err)
	}
	return p, nil
}

func (r *PostgresRepository) GetSoilProfile(ctx context.Context, id string) (SoilProfile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SoilProfile{}, ErrNotFound
	}
	query := `SELECT id, owner_id, name, soil_type, rows, created_at FROM soil_profiles WHERE id=$1`
	return scanProfile(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ListSoilProfiles(ctx context.Context, ownerID int) ([]SoilProfile, error) {
	query := `SELECT id, owner_id, name, soil_type, rows, created_at FROM soil_profiles
		WHERE owner_id=$1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []SoilProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) SaveRun(ctx context.Context, run DesignRun) (DesignRun, error) {
	run.ID = uuid.NewString()
	run.CreatedAt = time.Now().UTC()
	query := `INSERT INTO design_runs (id, owner_id, kind, request, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, run.ID, run.OwnerID, run.Kind,
		[]byte(run.Request), []byte(run.Result), run.CreatedAt)
	if err != nil {
		return DesignRun{}, mapErr(err)
	}
	return run, nil
}

func (r *PostgresRepository) ListRuns(ctx context.Context, ownerID, limit int) ([]DesignRun, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, owner_id, kind, request, result, created_at FROM design_runs
		WHERE owner_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []DesignRun
	for rows.Next() {
		var (
			run      DesignRun
			req, res []byte
		)
		if err := rows.Scan(&run.ID, &run.OwnerID, &run.Kind, &req, &res, &run.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		run.Request, run.Result = req, res
		out = append(out, run)
	}
	return out, rows.Err()
}
