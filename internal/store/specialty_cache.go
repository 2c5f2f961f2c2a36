package store

import (
	"context"
	"fmt"
	"sync"

	"medicos-platform-server/internal/models"
)

// SpecialtyCache loads and holds the active medical specialties used to
// populate selection controls. The list is read-mostly reference data:
// it is fetched once and kept until an explicit Reload.
type SpecialtyCache struct {
	repo SpecialtyRepository

	mu          sync.Mutex
	specialties []models.MedicalSpecialty
	loaded      bool
}

// NewSpecialtyCache creates an empty cache over the given repository.
func NewSpecialtyCache(repo SpecialtyRepository) *SpecialtyCache {
	return &SpecialtyCache{repo: repo}
}

// List returns the active specialties ordered by name, fetching them on
// first use and serving the cached copy afterwards.
func (c *SpecialtyCache) List(ctx context.Context) ([]models.MedicalSpecialty, error) {
	c.mu.Lock()
	if c.loaded {
		out := make([]models.MedicalSpecialty, len(c.specialties))
		copy(out, c.specialties)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	return c.Reload(ctx)
}

// Reload refetches the specialty list and replaces the cached copy. This
// is the only staleness control the cache has.
func (c *SpecialtyCache) Reload(ctx context.Context) ([]models.MedicalSpecialty, error) {
	specialties, err := c.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch specialties: %w", err)
	}

	c.mu.Lock()
	c.specialties = specialties
	c.loaded = true
	out := make([]models.MedicalSpecialty, len(c.specialties))
	copy(out, c.specialties)
	c.mu.Unlock()

	return out, nil
}
