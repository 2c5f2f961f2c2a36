package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medicos-platform-server/internal/models"
)

var _ SpecialtyRepository = (*MockSpecialtyRepository)(nil)

// MockSpecialtyRepository is a func-field mock of SpecialtyRepository.
type MockSpecialtyRepository struct {
	ListActiveFunc      func(ctx context.Context) ([]models.MedicalSpecialty, error)
	ListActiveCallCount int32
}

func (m *MockSpecialtyRepository) ListActive(ctx context.Context) ([]models.MedicalSpecialty, error) {
	atomic.AddInt32(&m.ListActiveCallCount, 1)
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

func specialty(name, code string) models.MedicalSpecialty {
	s := models.MedicalSpecialty{Name: name, Code: code, IsActive: true}
	s.ID = code
	return s
}

func TestSpecialtyCacheFetchesOnceAndServesCachedCopy(t *testing.T) {
	repo := &MockSpecialtyRepository{
		ListActiveFunc: func(ctx context.Context) ([]models.MedicalSpecialty, error) {
			return []models.MedicalSpecialty{
				specialty("Cardiology", "CARD"),
				specialty("Dermatology", "DERM"),
			}, nil
		},
	}
	cache := NewSpecialtyCache(repo)

	first, err := cache.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := cache.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), repo.ListActiveCallCount, "second List must hit the cache")
}

func TestSpecialtyCacheReloadRefetches(t *testing.T) {
	calls := 0
	repo := &MockSpecialtyRepository{
		ListActiveFunc: func(ctx context.Context) ([]models.MedicalSpecialty, error) {
			calls++
			if calls == 1 {
				return []models.MedicalSpecialty{specialty("Cardiology", "CARD")}, nil
			}
			return []models.MedicalSpecialty{
				specialty("Cardiology", "CARD"),
				specialty("Neurology", "NEUR"),
			}, nil
		},
	}
	cache := NewSpecialtyCache(repo)

	first, err := cache.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	reloaded, err := cache.Reload(context.Background())
	require.NoError(t, err)
	require.Len(t, reloaded, 2)

	after, err := cache.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, after, 2)
	assert.Equal(t, int32(2), repo.ListActiveCallCount)
}

func TestSpecialtyCacheSurfacesRemoteError(t *testing.T) {
	boom := errors.New("table unreachable")
	repo := &MockSpecialtyRepository{
		ListActiveFunc: func(ctx context.Context) ([]models.MedicalSpecialty, error) {
			return nil, boom
		},
	}
	cache := NewSpecialtyCache(repo)

	_, err := cache.List(context.Background())
	require.ErrorIs(t, err, boom)
}
