package analyses

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	analysis := Analysis{
		ID:         "analysis-1",
		UserID:     "user-1",
		SourceKind: "text",
		Subject:    "Budget review",
		Sender:     "boss@example.com",
		Status:     StatusCompleted,
		Result: &AnalysisResult{
			Summary:      "예산 검토",
			KeyPoints:    []string{},
			Tasks:        []Task{},
			ActionItems:  []string{},
			Sentiment:    SentimentNeutral,
			UrgencyLevel: PriorityMedium,
		},
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(
			analysis.ID,
			analysis.UserID,
			analysis.SourceKind,
			analysis.Subject,
			analysis.Sender,
			analysis.Status,
			sqlmock.AnyArg(), // result
			analysis.RawStorageKey,
			analysis.ErrorMessage,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), analysis); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDScopedToUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	createdAt := time.Now().UTC()

	columns := []string{"id", "user_id", "source_kind", "subject", "sender", "status", "result", "raw_storage_key", "error_message", "created_at"}
	mock.ExpectQuery("SELECT (.+) FROM analyses").
		WithArgs("analysis-1", "user-1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			"analysis-1", "user-1", "text", "Budget review", "boss@example.com",
			StatusCompleted, `{"summary":"예산 검토","sentiment":"neutral","urgency_level":"medium"}`, "", "", createdAt,
		))

	analysis, err := repo.GetByID(context.Background(), "user-1", "analysis-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if analysis.Result == nil || analysis.Result.Summary != "예산 검토" {
		t.Fatalf("result = %+v", analysis.Result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	createdAt := time.Now().UTC()

	columns := []string{"id", "user_id", "source_kind", "subject", "sender", "status", "result", "raw_storage_key", "error_message", "created_at"}
	mock.ExpectQuery("SELECT (.+) FROM analyses").
		WithArgs("user-1", 20, 0).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("a-2", "user-1", "eml", "Second", "x@y.z", StatusCompleted, nil, "", "", createdAt).
			AddRow("a-1", "user-1", "text", "First", "x@y.z", StatusFailed, nil, "", "analysis failed", createdAt.Add(-time.Hour)))

	analyses, err := repo.ListByUser(context.Background(), "user-1", 0, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(analyses) != 2 || analyses[0].ID != "a-2" {
		t.Fatalf("analyses = %+v", analyses)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
