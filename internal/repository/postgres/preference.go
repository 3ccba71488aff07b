package postgres

import (
	"database/sql"
)

// PreferenceRepo implements repository.PreferenceRepository
type PreferenceRepo struct {
	db *sql.DB
}

// NewPreferenceRepo creates a new preference repository
func NewPreferenceRepo(db *sql.DB) *PreferenceRepo {
	return &PreferenceRepo{db: db}
}

// GetLastUnit returns the last selected unit, or "" if none was recorded
func (r *PreferenceRepo) GetLastUnit(userID int64) (string, error) {
	var unit string
	query := `SELECT last_unit FROM preferences WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&unit)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return unit, nil
}

// SetLastUnit records the selected unit
func (r *PreferenceRepo) SetLastUnit(userID int64, unit string) error {
	query := `
		INSERT INTO preferences (user_id, last_unit, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET last_unit = EXCLUDED.last_unit, updated_at = NOW()
	`
	_, err := r.db.Exec(query, userID, unit)
	return err
}
