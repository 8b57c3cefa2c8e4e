package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dvloznov/statement-insights/internal/gate"
	"github.com/dvloznov/statement-insights/internal/jobs"
	"github.com/dvloznov/statement-insights/internal/logger"
	"github.com/dvloznov/statement-insights/internal/store"
)

func TestServiceHandleJob(t *testing.T) {
	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "statement1.txt")
	if err := os.WriteFile(srcPath, []byte(statementText), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	fs, err := store.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS() error = %v", err)
	}

	parser := &scriptedParser{responses: map[gate.Level]string{
		gate.LevelStrict: goodCandidateJSON,
	}}
	service := NewService(testProcessor(parser), fs, nil, logger.NewWithLevel("error"))

	job := &jobs.ProcessStatementJob{
		JobID:     "job-1",
		SourceURI: srcPath,
		Filename:  "statement1.txt",
	}
	if err := service.HandleJob(context.Background(), job); err != nil {
		t.Fatalf("HandleJob() error = %v", err)
	}

	result, err := fs.ReadResult("statement1.txt")
	if err != nil {
		t.Fatalf("ReadResult() error = %v", err)
	}
	if result.TransactionCount() != 1 {
		t.Errorf("TransactionCount() = %d, want 1", result.TransactionCount())
	}

	combined, err := fs.ReadCombined()
	if err != nil {
		t.Fatalf("ReadCombined() error = %v", err)
	}
	if combined.CombinedSummary.TotalFilesProcessed != 1 {
		t.Errorf("TotalFilesProcessed = %d, want 1", combined.CombinedSummary.TotalFilesProcessed)
	}
}

func TestServiceHandleJobMissingSource(t *testing.T) {
	fs, err := store.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS() error = %v", err)
	}
	parser := &scriptedParser{}
	service := NewService(testProcessor(parser), fs, nil, logger.NewWithLevel("error"))

	job := &jobs.ProcessStatementJob{
		JobID:     "job-1",
		SourceURI: filepath.Join(t.TempDir(), "absent.txt"),
		Filename:  "absent.txt",
	}
	if err := service.HandleJob(context.Background(), job); err == nil {
		t.Error("expected error for missing source file")
	}
	if len(parser.calls) != 0 {
		t.Errorf("parser called %d times for missing source, want 0", len(parser.calls))
	}
}

func TestServiceHandleJobWrongType(t *testing.T) {
	fs, err := store.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS() error = %v", err)
	}
	service := NewService(testProcessor(&scriptedParser{}), fs, nil, logger.NewWithLevel("error"))

	if err := service.HandleJob(context.Background(), fakeJob{}); err == nil {
		t.Error("expected error for unexpected job type")
	}
}

type fakeJob struct{}

func (fakeJob) GetID() string             { return "x" }
func (fakeJob) GetType() jobs.JobType     { return "other" }
func (fakeJob) GetStatus() jobs.JobStatus { return jobs.JobStatusPending }
