package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Seabed/internal/calc/soil"
)

var (
	ErrNotFound = errors.New("repo: not found")
	ErrExists   = errors.New("repo: already exists")
)

type SoilProfile struct {
	ID        string     `json:"id"`
	OwnerID   int        `json:"owner_id"`
	Name      string     `json:"name"`
	Table     soil.Table `json:"table"`
	CreatedAt time.Time  `json:"created_at"`
}

// DesignRun records one calculation request and its result.
type DesignRun struct {
	ID        string          `json:"id"`
	OwnerID   int             `json:"owner_id"`
	Kind      string          `json:"kind"`
	Request   json.RawMessage `json:"request"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetBylogin(ctx context.Context, login string) (int, string, error)

	SaveSoilProfile(ctx context.Context, p SoilProfile) (SoilProfile, error)
	GetSoilProfile(ctx context.Context, id string) (SoilProfile, error)
	ListSoilProfiles(ctx context.Context, ownerID int) ([]SoilProfile, error)

	SaveRun(ctx context.Context, run DesignRun) (DesignRun, error)
	ListRuns(ctx context.Context, ownerID, limit int) ([]DesignRun, error)
}
