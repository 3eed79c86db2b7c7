package store

import (
	"database/sql"
	"time"
)

// CalibrationSample is one recorded Debug value.
type CalibrationSample struct {
	ID        int64
	Label     string
	Value     float64
	CreatedAt time.Time
}

// CalibrationRepository stores calibration samples.
type CalibrationRepository struct {
	db *sql.DB
}

// Calibration returns the calibration sample repository for this store.
func (s *Store) Calibration() *CalibrationRepository {
	return &CalibrationRepository{db: s.db}
}

// Add stores a sample and fills in its ID and CreatedAt.
func (r *CalibrationRepository) Add(sample *CalibrationSample) error {
	sample.CreatedAt = time.Now()

	result, err := r.db.Exec(
		`INSERT INTO calibration_samples (label, value, created_at) VALUES (?, ?, ?)`,
		sample.Label, sample.Value, sample.CreatedAt,
	)
	if err != nil {
		return err
	}

	sample.ID, err = result.LastInsertId()
	return err
}

// Values returns the recorded values for label in insertion order.
func (r *CalibrationRepository) Values(label string) ([]float64, error) {
	rows, err := r.db.Query(
		`SELECT value FROM calibration_samples WHERE label = ? ORDER BY id ASC`, label,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []float64{}
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// Clear removes every sample.
func (r *CalibrationRepository) Clear() error {
	_, err := r.db.Exec(`DELETE FROM calibration_samples`)
	return err
}
