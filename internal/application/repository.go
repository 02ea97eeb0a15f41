// AngelaMos | 2026
// repository.go

package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/job-board/internal/core"
)

const userForeignKey = "applications_user_id_fkey"

// ErrApplicantNotFound is returned when the applying user does not exist.
var ErrApplicantNotFound = fmt.Errorf("applicant %w", core.ErrNotFound)

type Repository interface {
	Create(ctx context.Context, app *Application) error
	ListByUser(ctx context.Context, userID int64) ([]UserApplication, error)
	ListByJob(ctx context.Context, jobID int64) ([]Applicant, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// Create inserts the application unless one already exists for the pair.
// The existence check and the insert are one statement, so two concurrent
// applies cannot both succeed.
func (r *repository) Create(ctx context.Context, app *Application) error {
	query := `
		INSERT INTO applications (job_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (job_id, user_id) DO NOTHING
		RETURNING id, applied_date`

	err := r.db.GetContext(ctx, app, query, app.JobID, app.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("create application: %w", core.ErrDuplicateKey)
	}
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			if core.ConstraintName(err) == userForeignKey {
				return fmt.Errorf("create application: %w", ErrApplicantNotFound)
			}
			return fmt.Errorf("create application: job %w", core.ErrNotFound)
		}
		return fmt.Errorf("create application: %w", err)
	}

	return nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID int64,
) ([]UserApplication, error) {
	query := `
		SELECT a.id, a.job_id, a.user_id, a.applied_date,
		       j.title, j.company, j.location, j.description,
		       u.name AS employer_name
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN users u ON u.id = j.employer_id
		WHERE a.user_id = $1
		ORDER BY a.applied_date DESC, a.id DESC`

	apps := []UserApplication{}
	if err := r.db.SelectContext(ctx, &apps, query, userID); err != nil {
		return nil, fmt.Errorf("list user applications: %w", err)
	}

	return apps, nil
}

func (r *repository) ListByJob(
	ctx context.Context,
	jobID int64,
) ([]Applicant, error) {
	query := `
		SELECT a.id, a.job_id, a.user_id, a.applied_date, u.name, u.email
		FROM applications a
		JOIN users u ON u.id = a.user_id
		WHERE a.job_id = $1
		ORDER BY a.applied_date DESC, a.id DESC`

	applicants := []Applicant{}
	if err := r.db.SelectContext(ctx, &applicants, query, jobID); err != nil {
		return nil, fmt.Errorf("list job applicants: %w", err)
	}

	return applicants, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM applications`); err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return n, nil
}
