package analyses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"mailwork-backend/internal/llm"
	"mailwork-backend/internal/mailparse"
	"mailwork-backend/internal/shared/metrics"
	"mailwork-backend/internal/shared/storage/object"
)

// Service runs the analysis pipeline and records each invocation in
// the history log.
type Service struct {
	Repo  Repo
	LLM   llm.Client
	Store object.ObjectStore
}

// Analyze runs normalization output through extraction and repair,
// records the outcome, and returns the completed analysis. The
// pipeline is synchronous: one blocking extraction call per invocation,
// no retry.
func (s *Service) Analyze(ctx context.Context, userID string, record mailparse.EmailRecord, sourceKind string, raw []byte) (Analysis, error) {
	if userID == "" {
		return Analysis{}, errors.New("userID is required")
	}

	metrics.IncAnalysisStarted()
	startedAt := time.Now().UTC()

	analysis := Analysis{
		ID:         uuid.NewString(),
		UserID:     userID,
		SourceKind: sourceKind,
		Subject:    record.Subject,
		Sender:     record.Sender,
		CreatedAt:  startedAt,
	}

	if s.Store != nil && len(raw) > 0 {
		key, _, _, err := s.Store.Save(ctx, userID, analysis.ID+".eml", bytes.NewReader(raw))
		if err != nil {
			log.Printf("analysis %s: raw email audit copy failed: %v", analysis.ID, err)
		} else {
			analysis.RawStorageKey = key
		}
	}

	reply, err := s.LLM.AnalyzeEmail(ctx, llm.AnalyzeInput{Content: record.FullContent})
	if err != nil {
		metrics.IncAnalysisFailed()
		analysis.Status = StatusFailed
		analysis.ErrorMessage = err.Error()
		if createErr := s.Repo.Create(ctx, analysis); createErr != nil {
			log.Printf("analysis %s: record failure: %v", analysis.ID, createErr)
		}
		return Analysis{}, err
	}

	result, degraded := Repair(reply)
	analysis.Result = &result
	if degraded {
		metrics.IncAnalysisDegraded()
		analysis.Status = StatusDegraded
	} else {
		analysis.Status = StatusCompleted
	}

	if err := s.Repo.Create(ctx, analysis); err != nil {
		return Analysis{}, fmt.Errorf("record analysis: %w", err)
	}

	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(time.Since(startedAt).Milliseconds()))
	return analysis, nil
}

// Get returns one analysis owned by the user.
func (s *Service) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	if userID == "" || analysisID == "" {
		return Analysis{}, errors.New("userID and analysisID are required")
	}
	return s.Repo.GetByID(ctx, userID, analysisID)
}

// List returns the user's analysis history, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}
