// AngelaMos | 2026
// fake_test.go

package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/carterperez-dev/templates/job-board/internal/core"
	"github.com/carterperez-dev/templates/job-board/internal/job"
)

type stubJobs map[int64]*job.Job

func (s stubJobs) GetJob(_ context.Context, id int64) (*job.Job, error) {
	j, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("get job: %w", core.ErrNotFound)
	}
	return j, nil
}

func (s stubJobs) AuthorizeOwner(ctx context.Context, actor core.Actor, id int64) (*job.Job, error) {
	j, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.Is(j.EmployerID) {
		return nil, fmt.Errorf("job %d: %w", id, job.ErrNotOwner)
	}
	return j, nil
}

type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	clock  time.Time
	rows   []Application
	users  map[int64][2]string
	jobs   stubJobs
}

func newFakeRepo(jobs stubJobs) *fakeRepo {
	return &fakeRepo{
		clock: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		users: map[int64][2]string{
			5: {"Sam Seeker", "sam@example.com"},
			6: {"Tia Seeker", "tia@example.com"},
		},
		jobs: jobs,
	}
}

func (f *fakeRepo) Create(_ context.Context, app *Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[app.UserID]; !ok {
		return fmt.Errorf("create application: %w", ErrApplicantNotFound)
	}
	for _, existing := range f.rows {
		if existing.JobID == app.JobID && existing.UserID == app.UserID {
			return fmt.Errorf("create application: %w", core.ErrDuplicateKey)
		}
	}

	f.nextID++
	f.clock = f.clock.Add(time.Hour)
	app.ID = f.nextID
	app.AppliedDate = f.clock
	f.rows = append(f.rows, *app)
	return nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID int64) ([]UserApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []UserApplication{}
	for _, a := range f.rows {
		if a.UserID != userID {
			continue
		}
		j := f.jobs[a.JobID]
		out = append(out, UserApplication{
			Application:  a,
			Title:        j.Title,
			Company:      j.Company,
			Location:     j.Location,
			Description:  j.Description,
			EmployerName: j.EmployerName,
		})
	}
	sort.Slice(out, func(i, k int) bool { return out[i].AppliedDate.After(out[k].AppliedDate) })
	return out, nil
}

func (f *fakeRepo) ListByJob(_ context.Context, jobID int64) ([]Applicant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []Applicant{}
	for _, a := range f.rows {
		if a.JobID != jobID {
			continue
		}
		u := f.users[a.UserID]
		out = append(out, Applicant{Application: a, Name: u[0], Email: u[1]})
	}
	sort.Slice(out, func(i, k int) bool { return out[i].AppliedDate.After(out[k].AppliedDate) })
	return out, nil
}

func (f *fakeRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return int64(len(f.rows)), nil
}

func testJobs() stubJobs {
	return stubJobs{
		10: {ID: 10, Title: "Engineer", Company: "Acme", Location: "Remote", Description: "Build things", EmployerID: 1, EmployerName: "Acme Hiring"},
		11: {ID: 11, Title: "Designer", Company: "Acme", Location: "Berlin", Description: "Draw things", EmployerID: 1, EmployerName: "Acme Hiring"},
		20: {ID: 20, Title: "Analyst", Company: "Globex", Location: "Paris", Description: "Count things", EmployerID: 2, EmployerName: "Globex Hiring"},
	}
}
