package persistence

import (
	"context"
	"sync"

	"review-enhancer/domain/model"
)

type SettingsRepositoryMemory struct {
	mu       sync.RWMutex
	settings map[string]model.MallSettings
}

func NewSettingsRepositoryMemory() *SettingsRepositoryMemory {
	return &SettingsRepositoryMemory{settings: make(map[string]model.MallSettings)}
}

func (r *SettingsRepositoryMemory) GetSettings(_ context.Context, mallID string) (*model.MallSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.settings[mallID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *SettingsRepositoryMemory) SaveSettings(_ context.Context, s *model.MallSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[s.MallID] = *s
	return nil
}

func (r *SettingsRepositoryMemory) DeleteSettings(_ context.Context, mallID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.settings, mallID)
	return nil
}
