// AngelaMos | 2026
// service.go

package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/job-board/internal/core"
	"github.com/carterperez-dev/templates/job-board/internal/events"
	"github.com/carterperez-dev/templates/job-board/internal/job"
	"github.com/carterperez-dev/templates/job-board/internal/metrics"
)

const (
	roleAdmin     = "admin"
	roleJobSeeker = "job_seeker"
)

var (
	ErrAlreadyApplied = fmt.Errorf("already applied: %w", core.ErrDuplicateKey)
	ErrApplyForOther  = fmt.Errorf("cannot apply for another user: %w", core.ErrForbidden)
	ErrNotSelf        = fmt.Errorf("cannot view another user's applications: %w", core.ErrForbidden)
)

// JobLookup is the slice of the job service applications depend on.
type JobLookup interface {
	GetJob(ctx context.Context, id int64) (*job.Job, error)
	AuthorizeOwner(ctx context.Context, actor core.Actor, id int64) (*job.Job, error)
}

type Service struct {
	repo      Repository
	jobs      JobLookup
	publisher events.Publisher
}

func NewService(
	repo Repository,
	jobs JobLookup,
	publisher events.Publisher,
) *Service {
	return &Service{
		repo:      repo,
		jobs:      jobs,
		publisher: publisher,
	}
}

func (s *Service) Apply(
	ctx context.Context,
	actor core.Actor,
	req ApplyRequest,
) (*Application, error) {
	if actor.Role != roleJobSeeker && !actor.IsAdmin() {
		return nil, fmt.Errorf("role %q cannot apply: %w", actor.Role, core.ErrForbidden)
	}

	userID := req.UserID
	if userID == 0 {
		userID = actor.ID
	}
	if userID != actor.ID && !actor.IsAdmin() {
		return nil, ErrApplyForOther
	}

	if _, err := s.jobs.GetJob(ctx, req.JobID); err != nil {
		return nil, err
	}

	app := &Application{JobID: req.JobID, UserID: userID}
	if err := s.repo.Create(ctx, app); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, fmt.Errorf("job %d user %d: %w", req.JobID, userID, ErrAlreadyApplied)
		}
		return nil, err
	}

	metrics.RecordApplicationSubmitted()
	events.Emit(ctx, s.publisher, events.New(events.TypeApplicationSubmitted, map[string]int64{
		"application_id": app.ID,
		"job_id":         app.JobID,
		"user_id":        app.UserID,
	}))

	return app, nil
}

func (s *Service) ListByUser(
	ctx context.Context,
	actor core.Actor,
	userID int64,
) ([]UserApplication, error) {
	if !actor.Is(userID) && !actor.IsAdmin() {
		return nil, ErrNotSelf
	}

	return s.repo.ListByUser(ctx, userID)
}

// ListByJob returns the applicants of a job to its owner or an admin.
func (s *Service) ListByJob(
	ctx context.Context,
	actor core.Actor,
	jobID int64,
) ([]Applicant, error) {
	if _, err := s.jobs.AuthorizeOwner(ctx, actor, jobID); err != nil {
		return nil, err
	}

	return s.repo.ListByJob(ctx, jobID)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
