package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/dvloznov/statement-normalizer/internal/jobs"
)

func TestQueue_ProcessesPublishedJob(t *testing.T) {
	store := NewStore()
	q := NewQueue(4, store)
	defer q.Close()

	handled := make(chan string, 1)
	handler := func(ctx context.Context, job jobs.Job) error {
		handled <- job.GetID()
		return nil
	}

	ctx := context.Background()
	if err := q.Start(ctx, handler); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	job := &jobs.ExtractStatementJob{GCSURI: "gs://bucket/statement.pdf"}
	if err := q.PublishExtractStatement(ctx, job); err != nil {
		t.Fatalf("PublishExtractStatement failed: %v", err)
	}
	if job.JobID == "" {
		t.Fatal("publish should assign a job ID")
	}
	if job.MaxRetries != defaultMaxRetries {
		t.Errorf("MaxRetries = %d, want default %d", job.MaxRetries, defaultMaxRetries)
	}

	select {
	case id := <-handled:
		if id != job.JobID {
			t.Errorf("handler saw job %s, want %s", id, job.JobID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job was never handled")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		got, err := store.GetJob(ctx, job.JobID)
		if err != nil {
			t.Fatalf("GetJob failed: %v", err)
		}
		if got.Status == jobs.JobStatusCompleted {
			if got.StartedAt == nil || got.CompletedAt == nil {
				t.Error("completed job should carry start and completion times")
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("job never completed, status = %s", got.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestQueue_PublishAfterCloseFails(t *testing.T) {
	q := NewQueue(1, NewStore())
	if err := q.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	err := q.PublishExtractStatement(context.Background(), &jobs.ExtractStatementJob{GCSURI: "gs://b/x.pdf"})
	if err == nil {
		t.Error("publishing into a closed queue should fail")
	}

	if err := q.Start(context.Background(), func(ctx context.Context, job jobs.Job) error { return nil }); err == nil {
		t.Error("starting a closed queue should fail")
	}
}
