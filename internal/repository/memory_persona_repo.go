package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"

	"persona-engine/internal/domain"
)

// MemoryPersonaRepository guarda personas en memoria, util para desarrollo
// y pruebas sin base de datos (REPOSITORY_TYPE=memory).
type MemoryPersonaRepository struct {
	mu       sync.Mutex
	personas map[string]domain.Persona
}

func NewMemoryPersonaRepository() *MemoryPersonaRepository {
	return &MemoryPersonaRepository{personas: make(map[string]domain.Persona)}
}

func (r *MemoryPersonaRepository) Get(_ context.Context, userID string) (domain.Persona, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	persona, ok := r.personas[userID]
	if !ok {
		return domain.Persona{}, pgx.ErrNoRows
	}
	return persona, nil
}

func (r *MemoryPersonaRepository) Create(_ context.Context, persona domain.Persona) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Misma semantica que ON CONFLICT DO NOTHING: el primero gana.
	if _, ok := r.personas[persona.UserID]; ok {
		return nil
	}
	r.personas[persona.UserID] = persona
	return nil
}

func (r *MemoryPersonaRepository) Save(_ context.Context, persona domain.Persona) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.personas[persona.UserID]; !ok {
		return pgx.ErrNoRows
	}
	r.personas[persona.UserID] = persona
	return nil
}

func (r *MemoryPersonaRepository) List(_ context.Context, limit, offset int) ([]domain.Persona, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.personas))
	for id := range r.personas {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(ids) {
		return nil, nil
	}
	ids = ids[offset:]
	if limit < len(ids) {
		ids = ids[:limit]
	}

	personas := make([]domain.Persona, 0, len(ids))
	for _, id := range ids {
		personas = append(personas, r.personas[id])
	}
	return personas, nil
}
