package repo

import (
	"context"
	"time"

	"Seabed/internal/calc/soil"

	"github.com/patrickmn/go-cache"
	"github.com/sgostarter/i/l"
)

const profileTTL = 10 * time.Minute

// Profiles serves built soil profiles by id. Stored profiles are never
// modified, so a cached build stays valid until it expires.
type Profiles struct {
	repo   Repository
	cached *cache.Cache
	logger l.Wrapper
}

func NewProfiles(r Repository, logger l.Wrapper) *Profiles {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}
	return &Profiles{
		repo:   r,
		cached: cache.New(profileTTL, 2*profileTTL),
		logger: logger.WithFields(l.StringField(l.ClsKey, "profiles")),
	}
}

type builtProfile struct {
	record  SoilProfile
	profile *soil.Profile
}

// Save validates the table before storing it.
func (p *Profiles) Save(ctx context.Context, rec SoilProfile) (SoilProfile, *soil.Profile, error) {
	built, err := rec.Table.Build()
	if err != nil {
		return SoilProfile{}, nil, err
	}
	rec, err = p.repo.SaveSoilProfile(ctx, rec)
	if err != nil {
		return SoilProfile{}, nil, err
	}
	p.cached.Set(rec.ID, builtProfile{record: rec, profile: built}, cache.DefaultExpiration)
	return rec, built, nil
}

func (p *Profiles) Get(ctx context.Context, id string) (SoilProfile, *soil.Profile, error) {
	if v, ok := p.cached.Get(id); ok {
		b, _ := v.(builtProfile)
		return b.record, b.profile, nil
	}
	rec, err := p.repo.GetSoilProfile(ctx, id)
	if err != nil {
		return SoilProfile{}, nil, err
	}
	built, err := rec.Table.Build()
	if err != nil {
		p.logger.WithFields(l.StringField("id", id), l.ErrorField(err)).Error("stored profile no longer builds")
		return SoilProfile{}, nil, err
	}
	p.cached.Set(id, builtProfile{record: rec, profile: built}, cache.DefaultExpiration)
	return rec, built, nil
}

func (p *Profiles) List(ctx context.Context, ownerID int) ([]SoilProfile, error) {
	return p.repo.ListSoilProfiles(ctx, ownerID)
}

func (p *Profiles) Cached() int { return p.cached.ItemCount() }
