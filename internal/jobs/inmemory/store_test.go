package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/dvloznov/statement-normalizer/internal/jobs"
)

func seedStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seed := []*jobs.ExtractStatementJob{
		{JobID: "job-a", DocumentID: "doc-1", Status: jobs.JobStatusCompleted, CreatedAt: base},
		{JobID: "job-b", DocumentID: "doc-2", Status: jobs.JobStatusFailed, CreatedAt: base.Add(time.Minute)},
		{JobID: "job-c", DocumentID: "doc-1", Status: jobs.JobStatusPending, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, j := range seed {
		if err := s.SaveJob(context.Background(), j); err != nil {
			t.Fatalf("SaveJob(%s) failed: %v", j.JobID, err)
		}
	}
	return s
}

func TestStore_SaveJobCopies(t *testing.T) {
	s := NewStore()
	job := &jobs.ExtractStatementJob{JobID: "job-1", GCSURI: "gs://b/x.pdf"}

	if err := s.SaveJob(context.Background(), job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}
	job.GCSURI = "gs://b/mutated.pdf"

	got, err := s.GetJob(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got.GCSURI != "gs://b/x.pdf" {
		t.Errorf("stored job should be insulated from caller mutation, got %q", got.GCSURI)
	}
}

func TestStore_SaveJobRequiresID(t *testing.T) {
	s := NewStore()
	if err := s.SaveJob(context.Background(), &jobs.ExtractStatementJob{}); err == nil {
		t.Error("expected error for missing job ID")
	}
}

func TestStore_ListJobsNewestFirst(t *testing.T) {
	s := seedStore(t)

	got, err := s.ListJobs(context.Background(), jobs.JobFilter{})
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	want := []string{"job-c", "job-b", "job-a"}
	if len(got) != len(want) {
		t.Fatalf("got %d jobs, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].JobID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].JobID, id)
		}
	}
}

func TestStore_ListJobsPaginationIsStable(t *testing.T) {
	s := seedStore(t)

	first, err := s.ListJobs(context.Background(), jobs.JobFilter{Limit: 1})
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	second, err := s.ListJobs(context.Background(), jobs.JobFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	third, err := s.ListJobs(context.Background(), jobs.JobFilter{Limit: 1, Offset: 2})
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}

	pages := []string{first[0].JobID, second[0].JobID, third[0].JobID}
	want := []string{"job-c", "job-b", "job-a"}
	for i := range want {
		if pages[i] != want[i] {
			t.Errorf("page %d: got %s, want %s", i, pages[i], want[i])
		}
	}

	past, err := s.ListJobs(context.Background(), jobs.JobFilter{Offset: 10})
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(past) != 0 {
		t.Errorf("offset past the end should return no jobs, got %d", len(past))
	}
}

func TestStore_ListJobsFilters(t *testing.T) {
	s := seedStore(t)

	byDoc, err := s.ListJobs(context.Background(), jobs.JobFilter{DocumentID: "doc-1"})
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(byDoc) != 2 {
		t.Errorf("doc-1 filter: got %d jobs, want 2", len(byDoc))
	}

	byStatus, err := s.ListJobs(context.Background(), jobs.JobFilter{Status: jobs.JobStatusFailed})
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(byStatus) != 1 || byStatus[0].JobID != "job-b" {
		t.Errorf("failed filter: got %+v", byStatus)
	}
}

func TestStore_UpdateJobStatus(t *testing.T) {
	s := seedStore(t)

	if err := s.UpdateJobStatus(context.Background(), "job-c", jobs.JobStatusFailed, "boom"); err != nil {
		t.Fatalf("UpdateJobStatus failed: %v", err)
	}
	got, err := s.GetJob(context.Background(), "job-c")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if got.Status != jobs.JobStatusFailed || got.Error != "boom" {
		t.Errorf("job = %+v", got)
	}

	if err := s.UpdateJobStatus(context.Background(), "missing", jobs.JobStatusFailed, ""); err == nil {
		t.Error("expected error for unknown job ID")
	}
}
