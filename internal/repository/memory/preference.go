package memory

import "sync"

// PreferenceRepo implements repository.PreferenceRepository in memory
type PreferenceRepo struct {
	mu    sync.RWMutex
	units map[int64]string
}

// NewPreferenceRepo creates an empty in-memory preference store
func NewPreferenceRepo() *PreferenceRepo {
	return &PreferenceRepo{units: make(map[int64]string)}
}

// GetLastUnit returns the last selected unit, or "" if none was recorded
func (r *PreferenceRepo) GetLastUnit(userID int64) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.units[userID], nil
}

// SetLastUnit records the selected unit
func (r *PreferenceRepo) SetLastUnit(userID int64, unit string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units[userID] = unit
	return nil
}
