package predictor

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store backed by PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed Store
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a prediction record. CreatedAt defaults to the database
// clock when unset.
func (s *PostgresStore) Create(ctx context.Context, record *PredictionRecord) error {
	var createdAt any
	if !record.CreatedAt.IsZero() {
		createdAt = record.CreatedAt
	}

	in := record.Input
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO predictions (
			id, student_id,
			study_hours_per_day, social_media_hours, netflix_hours, sleep_hours,
			mental_health_rating, attendance_percentage,
			part_time_job, extracurricular_participation,
			result, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, COALESCE($12::timestamptz, NOW()))
		RETURNING created_at
	`, record.ID, record.StudentID,
		in.StudyHoursPerDay, in.SocialMediaHours, in.NetflixHours, in.SleepHours,
		in.MentalHealthRating, in.AttendancePercentage,
		in.PartTimeJob, in.ExtracurricularParticipation,
		record.Result, createdAt,
	).Scan(&record.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}

	return nil
}

// ListByStudent returns the student's records, most recent first
func (s *PostgresStore) ListByStudent(ctx context.Context, studentID string) ([]*PredictionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, student_id,
			study_hours_per_day, social_media_hours, netflix_hours, sleep_hours,
			mental_health_rating, attendance_percentage,
			part_time_job, extracurricular_participation,
			result, created_at
		FROM predictions
		WHERE student_id = $1
		ORDER BY created_at DESC
	`, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	var records []*PredictionRecord
	for rows.Next() {
		var r PredictionRecord
		if err := rows.Scan(&r.ID, &r.StudentID,
			&r.Input.StudyHoursPerDay, &r.Input.SocialMediaHours, &r.Input.NetflixHours, &r.Input.SleepHours,
			&r.Input.MentalHealthRating, &r.Input.AttendancePercentage,
			&r.Input.PartTimeJob, &r.Input.ExtracurricularParticipation,
			&r.Result, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}

	return records, nil
}
