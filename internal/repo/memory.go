package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type user struct {
	id                     int
	login, email, password string
}

// MemoryRepository keeps everything in process. It backs local runs
// without a database and the handler tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	users    map[string]user
	profiles map[string]SoilProfile
	runs     []DesignRun
}

func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		users:    make(map[string]user),
		profiles: make(map[string]SoilProfile),
	}
}

func (m *MemoryRepository) CreateUser(_ context.Context, login, email, password string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[login]; ok {
		return 0, fmt.Errorf("%w: login %q", ErrExists, login)
	}
	u := user{id: len(m.users) + 1, login: login, email: email, password: password}
	m.users[login] = u
	return u.id, nil
}

func (m *MemoryRepository) GetBylogin(_ context.Context, login string) (int, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[login]
	if !ok {
		return 0, "", ErrNotFound
	}
	return u.id, u.password, nil
}

func (m *MemoryRepository) SaveSoilProfile(_ context.Context, p SoilProfile) (SoilProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.profiles {
		if q.OwnerID == p.OwnerID && q.Name == p.Name {
			return SoilProfile{}, fmt.Errorf("%w: profile %q", ErrExists, p.Name)
		}
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	m.profiles[p.ID] = p
	return p, nil
}

func (m *MemoryRepository) GetSoilProfile(_ context.Context, id string) (SoilProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return SoilProfile{}, ErrNotFound
	}
	return p, nil
}

func (m *MemoryRepository) ListSoilProfiles(_ context.Context, ownerID int) ([]SoilProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []SoilProfile
	for _, p := range m.profiles {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryRepository) SaveRun(_ context.Context, run DesignRun) (DesignRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run.ID = uuid.NewString()
	run.CreatedAt = time.Now().UTC()
	m.runs = append(m.runs, run)
	return run, nil
}

func (m *MemoryRepository) ListRuns(_ context.Context, ownerID, limit int) ([]DesignRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 {
		limit = 50
	}
	var out []DesignRun
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if m.runs[i].OwnerID == ownerID {
			out = append(out, m.runs[i])
		}
	}
	return out, nil
}
