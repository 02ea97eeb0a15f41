// AngelaMos | 2026
// service.go

package job

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/templates/job-board/internal/core"
	"github.com/carterperez-dev/templates/job-board/internal/events"
	"github.com/carterperez-dev/templates/job-board/internal/metrics"
)

const (
	roleAdmin    = "admin"
	roleEmployer = "employer"
)

var (
	ErrEmployerRequired = fmt.Errorf("employer_id is required: %w", core.ErrInvalidInput)
	ErrPostAsOther      = fmt.Errorf("cannot post as another employer: %w", core.ErrForbidden)
	ErrNotOwner         = fmt.Errorf("not the job owner: %w", core.ErrForbidden)
	ErrReassign         = fmt.Errorf("only admins can reassign jobs: %w", core.ErrForbidden)
)

type Service struct {
	repo      Repository
	publisher events.Publisher
}

func NewService(repo Repository, publisher events.Publisher) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *Service) ListJobs(
	ctx context.Context,
	params ListJobsParams,
) ([]Job, error) {
	params.Search = strings.TrimSpace(params.Search)
	params.Location = strings.TrimSpace(params.Location)
	return s.repo.List(ctx, params)
}

func (s *Service) GetJob(ctx context.Context, id int64) (*Job, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByEmployer(
	ctx context.Context,
	employerID int64,
) ([]Job, error) {
	return s.repo.ListByEmployer(ctx, employerID)
}

// CreateJob posts a job. Employers always post as themselves; admins must
// name the employer the job belongs to.
func (s *Service) CreateJob(
	ctx context.Context,
	actor core.Actor,
	req JobRequest,
) (*Job, error) {
	employerID, err := resolvePoster(actor, req.EmployerID)
	if err != nil {
		return nil, err
	}

	job := &Job{
		Title:       req.Title,
		Description: req.Description,
		Company:     req.Company,
		Location:    req.Location,
		EmployerID:  employerID,
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	metrics.RecordJobPosted()
	events.Emit(ctx, s.publisher, events.New(events.TypeJobCreated, map[string]any{
		"job_id":      job.ID,
		"employer_id": job.EmployerID,
		"title":       job.Title,
	}))

	return job, nil
}

func (s *Service) UpdateJob(
	ctx context.Context,
	actor core.Actor,
	id int64,
	req JobRequest,
) (*Job, error) {
	job, err := s.ownedJob(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.EmployerID != 0 && req.EmployerID != job.EmployerID {
		if !actor.IsAdmin() {
			return nil, fmt.Errorf("update job %d: %w", id, ErrReassign)
		}
		job.EmployerID = req.EmployerID
	}

	job.Title = req.Title
	job.Description = req.Description
	job.Company = req.Company
	job.Location = req.Location

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}

func (s *Service) DeleteJob(
	ctx context.Context,
	actor core.Actor,
	id int64,
) error {
	job, err := s.ownedJob(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	events.Emit(ctx, s.publisher, events.New(events.TypeJobDeleted, map[string]int64{
		"job_id":      job.ID,
		"employer_id": job.EmployerID,
	}))

	return nil
}

// AuthorizeOwner loads the job and checks the actor may manage it.
func (s *Service) AuthorizeOwner(
	ctx context.Context,
	actor core.Actor,
	id int64,
) (*Job, error) {
	return s.ownedJob(ctx, actor, id)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) ownedJob(
	ctx context.Context,
	actor core.Actor,
	id int64,
) (*Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && !job.OwnedBy(actor.ID) {
		return nil, fmt.Errorf("job %d: %w", id, ErrNotOwner)
	}

	return job, nil
}

func resolvePoster(actor core.Actor, requested int64) (int64, error) {
	switch actor.Role {
	case roleAdmin:
		if requested == 0 {
			return 0, ErrEmployerRequired
		}
		return requested, nil
	case roleEmployer:
		if requested != 0 && requested != actor.ID {
			return 0, ErrPostAsOther
		}
		return actor.ID, nil
	default:
		return 0, fmt.Errorf("role %q cannot post jobs: %w", actor.Role, core.ErrForbidden)
	}
}
