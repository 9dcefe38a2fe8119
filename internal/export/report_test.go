package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"mailwork-backend/internal/analyses"
)

func sampleResult() analyses.AnalysisResult {
	return analyses.AnalysisResult{
		Summary:   "예산 검토 요청 메일입니다.",
		KeyPoints: []string{"예산안 검토", "기한 엄수"},
		Tasks: []analyses.Task{
			{Description: "예산안 검토", Priority: analyses.PriorityHigh, Deadline: strPtr("3일"), Assignee: strPtr("김대리")},
			{Description: "보고서 공유", Priority: analyses.PriorityMedium},
		},
		ActionItems:  []string{"예산안 열람"},
		FollowUp:     "검토 후 회신",
		Sentiment:    analyses.SentimentNeutral,
		UrgencyLevel: analyses.PriorityHigh,
	}
}

func TestEncodeTaskCSV(t *testing.T) {
	payload, err := EncodeTaskCSV(sampleResult())
	if err != nil {
		t.Fatalf("EncodeTaskCSV: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(string(payload))).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2 tasks", len(rows))
	}
	wantHeader := []string{"번호", "할일", "우선순위", "마감일", "담당자", "상태"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Fatalf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}
	if rows[1][3] != "3일" {
		t.Fatalf("deadline display = %q, original text must be preserved", rows[1][3])
	}
	if rows[2][3] != "미정" || rows[2][4] != "미정" {
		t.Fatalf("missing deadline/assignee must render as 미정: %v", rows[2])
	}
	if rows[1][5] != "미완료" {
		t.Fatalf("status = %q", rows[1][5])
	}
}

func TestEncodeTextReport(t *testing.T) {
	generatedAt := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	report := string(EncodeTextReport(sampleResult(), generatedAt))

	for _, want := range []string{
		"이메일 업무 분석 보고서",
		"분석 일시: 2025-06-02 09:30:00",
		"예산 검토 요청 메일입니다.",
		"1. 예산안 검토",
		"검토 후 회신",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}

func TestEncodeTextReportSkipsEmptySections(t *testing.T) {
	result := analyses.AnalysisResult{
		Summary:      "짧은 요약",
		KeyPoints:    []string{},
		Tasks:        []analyses.Task{},
		ActionItems:  []string{},
		Sentiment:    analyses.SentimentNeutral,
		UrgencyLevel: analyses.PriorityMedium,
	}
	report := string(EncodeTextReport(result, time.Now()))
	for _, heading := range []string{"주요 포인트", "할일 목록", "즉시 처리 항목", "후속 조치"} {
		if strings.Contains(report, heading) {
			t.Fatalf("empty section %q must be omitted", heading)
		}
	}
}

func TestEncodeHistoryCSV(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	result := sampleResult()
	records := []analyses.Analysis{
		{ID: "a-1", SourceKind: "text", Subject: "Budget", Sender: "boss@example.com", Status: analyses.StatusCompleted, Result: &result, CreatedAt: createdAt},
		{ID: "a-2", SourceKind: "eml", Status: analyses.StatusFailed, ErrorMessage: "transport", CreatedAt: createdAt},
	}

	payload, err := EncodeHistoryCSV(records)
	if err != nil {
		t.Fatalf("EncodeHistoryCSV: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(string(payload))).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header + 2 task rows + 1 empty row", len(rows))
	}
	if rows[1][6] != "예산안 검토" || rows[2][6] != "보고서 공유" {
		t.Fatalf("task rows = %v / %v", rows[1], rows[2])
	}
	if rows[2][8] != "미정" {
		t.Fatalf("missing deadline must render as 미정: %v", rows[2])
	}
	if rows[3][0] != "a-2" || rows[3][6] != "" {
		t.Fatalf("task-less analysis row = %v", rows[3])
	}
}
