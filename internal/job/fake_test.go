// AngelaMos | 2026
// fake_test.go

package job

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/carterperez-dev/templates/job-board/internal/core"
)

type fakeRepo struct {
	mu        sync.Mutex
	nextID    int64
	clock     time.Time
	jobs      map[int64]Job
	employers map[int64]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		jobs:  map[int64]Job{},
		employers: map[int64]string{
			1: "Acme Hiring",
			2: "Globex Hiring",
			9: "Admin",
		},
	}
}

func (f *fakeRepo) Create(_ context.Context, job *Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	name, ok := f.employers[job.EmployerID]
	if !ok {
		return fmt.Errorf("create job: %w", ErrEmployerNotFound)
	}

	f.nextID++
	f.clock = f.clock.Add(time.Minute)
	job.ID = f.nextID
	job.CreatedAt = f.clock
	job.UpdatedAt = f.clock

	stored := *job
	stored.EmployerName = name
	f.jobs[job.ID] = stored
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	j, ok := f.jobs[id]
	if !ok {
		return nil, fmt.Errorf("get job: %w", core.ErrNotFound)
	}
	return &j, nil
}

func (f *fakeRepo) List(_ context.Context, _ ListJobsParams) ([]Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.sorted(func(Job) bool { return true }), nil
}

func (f *fakeRepo) ListByEmployer(_ context.Context, employerID int64) ([]Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.sorted(func(j Job) bool { return j.EmployerID == employerID }), nil
}

func (f *fakeRepo) Update(_ context.Context, job *Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.jobs[job.ID]; !ok {
		return fmt.Errorf("update job: %w", core.ErrNotFound)
	}
	name, ok := f.employers[job.EmployerID]
	if !ok {
		return fmt.Errorf("update job: %w", ErrEmployerNotFound)
	}
	job.EmployerName = name
	f.jobs[job.ID] = *job
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.jobs[id]; !ok {
		return fmt.Errorf("delete job: %w", core.ErrNotFound)
	}
	delete(f.jobs, id)
	return nil
}

func (f *fakeRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return int64(len(f.jobs)), nil
}

func (f *fakeRepo) sorted(keep func(Job) bool) []Job {
	out := []Job{}
	for _, j := range f.jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out
}
