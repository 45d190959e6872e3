// Package kvstore is the persistent key-value store shared by editor drafts
// and the language preference.
package kvstore

import (
	"context"
	"sync"

	"github.com/daniilsolovey/tourism-portal/internal/db"
)

type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// DraftKey is the auto-save key of one content area. Every logical field
// must use its own area name.
func DraftKey(area string) string {
	return "draft:" + area
}

type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Postgres keeps the values in the drafts table.
type Postgres struct {
	repo *db.Repository
}

func NewPostgres(repo *db.Repository) *Postgres {
	return &Postgres{repo: repo}
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	return p.repo.Draft(ctx, key)
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	return p.repo.SaveDraft(ctx, key, value)
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	return p.repo.DeleteDraft(ctx, key)
}
