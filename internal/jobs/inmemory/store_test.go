package inmemory

import (
	"context"
	"testing"

	"github.com/dvloznov/statement-insights/internal/jobs"
)

func TestSaveAndGetJob(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	job := &jobs.ProcessStatementJob{
		JobID:      "job-1",
		DocumentID: "doc-1",
		Filename:   "statement1.txt",
		Status:     jobs.JobStatusPending,
	}
	if err := s.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob() error = %v", err)
	}

	got, err := s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if got.Filename != "statement1.txt" {
		t.Errorf("Filename = %q, want statement1.txt", got.Filename)
	}

	// Mutating the returned copy must not affect stored state.
	got.Status = jobs.JobStatusFailed
	again, err := s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if again.Status != jobs.JobStatusPending {
		t.Errorf("Status = %q, want pending", again.Status)
	}
}

func TestSaveJobRequiresID(t *testing.T) {
	s := NewStore()
	if err := s.SaveJob(context.Background(), &jobs.ProcessStatementJob{}); err == nil {
		t.Error("expected error for missing job ID")
	}
}

func TestGetJobMissing(t *testing.T) {
	s := NewStore()
	if _, err := s.GetJob(context.Background(), "nope"); err == nil {
		t.Error("expected error for unknown job")
	}
}

func TestListJobsFiltering(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	seed := []*jobs.ProcessStatementJob{
		{JobID: "a", DocumentID: "doc-1", Status: jobs.JobStatusPending},
		{JobID: "b", DocumentID: "doc-1", Status: jobs.JobStatusCompleted},
		{JobID: "c", DocumentID: "doc-2", Status: jobs.JobStatusPending},
	}
	for _, job := range seed {
		if err := s.SaveJob(ctx, job); err != nil {
			t.Fatalf("SaveJob() error = %v", err)
		}
	}

	byDoc, err := s.ListJobs(ctx, jobs.JobFilter{DocumentID: "doc-1"})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(byDoc) != 2 {
		t.Errorf("got %d jobs for doc-1, want 2", len(byDoc))
	}

	byStatus, err := s.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusPending})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(byStatus) != 2 {
		t.Errorf("got %d pending jobs, want 2", len(byStatus))
	}

	limited, err := s.ListJobs(ctx, jobs.JobFilter{Limit: 1})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d jobs with limit 1, want 1", len(limited))
	}
}

func TestUpdateJobStatus(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	job := &jobs.ProcessStatementJob{JobID: "job-1", Status: jobs.JobStatusPending}
	if err := s.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob() error = %v", err)
	}

	if err := s.UpdateJobStatus(ctx, "job-1", jobs.JobStatusFailed, "boom"); err != nil {
		t.Fatalf("UpdateJobStatus() error = %v", err)
	}

	got, err := s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if got.Status != jobs.JobStatusFailed || got.Error != "boom" {
		t.Errorf("job = %+v, want failed with error boom", got)
	}

	if err := s.UpdateJobStatus(ctx, "nope", jobs.JobStatusFailed, ""); err == nil {
		t.Error("expected error for unknown job")
	}
}
