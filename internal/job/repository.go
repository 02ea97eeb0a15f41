// AngelaMos | 2026
// repository.go

package job

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/templates/job-board/internal/core"
)

// ErrEmployerNotFound is returned when employer_id names no user.
var ErrEmployerNotFound = fmt.Errorf("employer %w", core.ErrNotFound)

type Repository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	List(ctx context.Context, params ListJobsParams) ([]Job, error)
	ListByEmployer(ctx context.Context, employerID int64) ([]Job, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const selectJobs = `
	SELECT j.id, j.title, j.description, j.company, j.location,
	       j.employer_id, u.name AS employer_name, j.created_at, j.updated_at
	FROM jobs j
	JOIN users u ON u.id = j.employer_id`

func (r *repository) Create(ctx context.Context, job *Job) error {
	query := `
		INSERT INTO jobs (title, description, company, location, employer_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.GetContext(ctx, job, query,
		job.Title,
		job.Description,
		job.Company,
		job.Location,
		job.EmployerID,
	)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create job: %w", ErrEmployerNotFound)
		}
		return fmt.Errorf("create job: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Job, error) {
	query := selectJobs + `
		WHERE j.id = $1`

	var job Job
	err := r.db.GetContext(ctx, &job, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get job: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	return &job, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListJobsParams,
) ([]Job, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(j.title ILIKE $%d OR j.company ILIKE $%d OR j.description ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Location != "" {
		conditions = append(conditions, fmt.Sprintf("j.location ILIKE $%d", argIdx))
		args = append(args, "%"+core.EscapeLike(params.Location)+"%")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`%s
		%s
		ORDER BY j.created_at DESC, j.id DESC`,
		selectJobs, whereClause)

	jobs := []Job{}
	if err := r.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	return jobs, nil
}

func (r *repository) ListByEmployer(
	ctx context.Context,
	employerID int64,
) ([]Job, error) {
	query := selectJobs + `
		WHERE j.employer_id = $1
		ORDER BY j.created_at DESC, j.id DESC`

	jobs := []Job{}
	if err := r.db.SelectContext(ctx, &jobs, query, employerID); err != nil {
		return nil, fmt.Errorf("list employer jobs: %w", err)
	}

	return jobs, nil
}

func (r *repository) Update(ctx context.Context, job *Job) error {
	query := `
		UPDATE jobs
		SET title = $2, description = $3, company = $4, location = $5,
		    employer_id = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &job.UpdatedAt, query,
		job.ID,
		job.Title,
		job.Description,
		job.Company,
		job.Location,
		job.EmployerID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update job: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("update job: %w", ErrEmployerNotFound)
		}
		return fmt.Errorf("update job: %w", err)
	}

	return nil
}

// Delete removes the job. Its applications go with it through the cascade.
func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete job: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM jobs`); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}
