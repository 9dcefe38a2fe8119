package analyses

import (
	"context"
	"errors"
	"testing"
	"time"

	"mailwork-backend/internal/llm"
	"mailwork-backend/internal/mailparse"
)

type fakeLLM struct {
	reply string
	err   error
	calls int
	got   llm.AnalyzeInput
}

func (f *fakeLLM) AnalyzeEmail(ctx context.Context, input llm.AnalyzeInput) (string, error) {
	f.calls++
	f.got = input
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func mustRecord(t *testing.T, body string) mailparse.EmailRecord {
	t.Helper()
	record, err := mailparse.ParsePlainText([]byte(body))
	if err != nil {
		t.Fatalf("ParsePlainText: %v", err)
	}
	return record
}

func TestAnalyzeCompletes(t *testing.T) {
	client := &fakeLLM{reply: fencedReply}
	svc := &Service{Repo: NewMemoryRepo(), LLM: client}

	record := mustRecord(t, "Please review the budget. 마감: 3일")
	analysis, err := svc.Analyze(context.Background(), "user-1", record, mailparse.SourceText, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.Status != StatusCompleted {
		t.Fatalf("status = %q", analysis.Status)
	}
	if client.calls != 1 {
		t.Fatalf("llm calls = %d, want exactly one", client.calls)
	}
	if client.got.Content != record.FullContent {
		t.Fatalf("extraction input = %q, want full content", client.got.Content)
	}

	stored, err := svc.Get(context.Background(), "user-1", analysis.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Result == nil || len(stored.Result.Tasks) != 2 {
		t.Fatalf("stored result = %+v", stored.Result)
	}
}

func TestAnalyzeDeadlineFlowsToSchedule(t *testing.T) {
	client := &fakeLLM{reply: `{"summary":"검토","tasks":[{"task":"예산안 검토","priority":"high","deadline":"3일"}]}`}
	svc := &Service{Repo: NewMemoryRepo(), LLM: client}

	record := mustRecord(t, "Please review the budget. 마감: 3일")
	analysis, err := svc.Analyze(context.Background(), "user-1", record, mailparse.SourceText, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	task := analysis.Result.Tasks[0]
	if task.Deadline == nil {
		t.Fatal("task deadline missing")
	}
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	resolved := ResolveDeadline(*task.Deadline, now)
	if !resolved.Resolved {
		t.Fatal("relative deadline must resolve")
	}
	if want := now.AddDate(0, 0, 3); !resolved.Date.Equal(want) {
		t.Fatalf("resolved date = %v, want %v", resolved.Date, want)
	}
}

func TestAnalyzeDegraded(t *testing.T) {
	client := &fakeLLM{reply: "JSON이 아닙니다"}
	svc := &Service{Repo: NewMemoryRepo(), LLM: client}

	analysis, err := svc.Analyze(context.Background(), "user-1", mustRecord(t, "내용"), mailparse.SourceText, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.Status != StatusDegraded {
		t.Fatalf("status = %q", analysis.Status)
	}
	if analysis.Result.RawResponse != "JSON이 아닙니다" {
		t.Fatalf("raw response = %q", analysis.Result.RawResponse)
	}
}

func TestAnalyzeNotConfigured(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo(), LLM: llm.PlaceholderClient{}}

	_, err := svc.Analyze(context.Background(), "user-1", mustRecord(t, "내용"), mailparse.SourceText, nil)
	if !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("got %v, want ErrNotConfigured", err)
	}
}

func TestAnalyzeTransportFailureRecorded(t *testing.T) {
	client := &fakeLLM{err: &llm.TransportError{Err: errors.New("connection refused")}}
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo, LLM: client}

	_, err := svc.Analyze(context.Background(), "user-1", mustRecord(t, "내용"), mailparse.SourceText, nil)
	var transportErr *llm.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("got %v, want TransportError", err)
	}

	history, err := repo.ListByUser(context.Background(), "user-1", 10, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(history) != 1 || history[0].Status != StatusFailed {
		t.Fatalf("history = %+v, failed attempt must be recorded", history)
	}
}

func TestGetScopedToOwner(t *testing.T) {
	client := &fakeLLM{reply: `{"summary":"ok"}`}
	svc := &Service{Repo: NewMemoryRepo(), LLM: client}

	analysis, err := svc.Analyze(context.Background(), "user-1", mustRecord(t, "내용"), mailparse.SourceText, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if _, err := svc.Get(context.Background(), "user-2", analysis.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound for other user", err)
	}
}
