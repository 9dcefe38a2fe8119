package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mailwork-backend/internal/analyses"
)

// EncodeTaskCSV renders the task list as CSV rows with a header.
func EncodeTaskCSV(result analyses.AnalysisResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"번호", "할일", "우선순위", "마감일", "담당자", "상태"}); err != nil {
		return nil, err
	}
	for i, task := range result.Tasks {
		deadline := "미정"
		if task.Deadline != nil {
			deadline = *task.Deadline
		}
		assignee := "미정"
		if task.Assignee != nil {
			assignee = *task.Assignee
		}
		row := []string{strconv.Itoa(i + 1), task.Description, task.Priority, deadline, assignee, "미완료"}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// EncodeTextReport renders a printable plain-text report of one result.
func EncodeTextReport(result analyses.AnalysisResult, generatedAt time.Time) []byte {
	var b strings.Builder

	b.WriteString("이메일 업무 분석 보고서\n")
	b.WriteString("========================\n\n")
	fmt.Fprintf(&b, "분석 일시: %s\n", generatedAt.UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "긴급도: %s\n", result.UrgencyLevel)
	fmt.Fprintf(&b, "감정 톤: %s\n\n", result.Sentiment)

	b.WriteString("요약\n----\n")
	b.WriteString(result.Summary)
	b.WriteString("\n\n")

	if len(result.KeyPoints) > 0 {
		b.WriteString("주요 포인트\n-----------\n")
		for i, point := range result.KeyPoints {
			fmt.Fprintf(&b, "%d. %s\n", i+1, point)
		}
		b.WriteString("\n")
	}

	if len(result.Tasks) > 0 {
		b.WriteString("할일 목록\n---------\n")
		for i, task := range result.Tasks {
			deadline := "미정"
			if task.Deadline != nil {
				deadline = *task.Deadline
			}
			assignee := "미정"
			if task.Assignee != nil {
				assignee = *task.Assignee
			}
			fmt.Fprintf(&b, "%d. %s (우선순위: %s, 마감일: %s, 담당자: %s)\n",
				i+1, task.Description, task.Priority, deadline, assignee)
		}
		b.WriteString("\n")
	}

	if len(result.ActionItems) > 0 {
		b.WriteString("즉시 처리 항목\n--------------\n")
		for i, item := range result.ActionItems {
			fmt.Fprintf(&b, "%d. %s\n", i+1, item)
		}
		b.WriteString("\n")
	}

	if result.FollowUp != "" {
		b.WriteString("후속 조치\n---------\n")
		b.WriteString(result.FollowUp)
		b.WriteString("\n")
	}

	return []byte(b.String())
}

// EncodeHistoryCSV renders the analysis history log as CSV, flattened
// to one row per extracted task. Analyses without tasks still emit one
// row so the log stays complete.
func EncodeHistoryCSV(records []analyses.Analysis) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "created_at", "source_kind", "subject", "sender", "status", "할일", "우선순위", "마감일", "담당자"}); err != nil {
		return nil, err
	}
	for _, record := range records {
		base := []string{
			record.ID,
			record.CreatedAt.UTC().Format(time.RFC3339),
			record.SourceKind,
			record.Subject,
			record.Sender,
			record.Status,
		}
		if record.Result == nil || len(record.Result.Tasks) == 0 {
			if err := w.Write(append(base, "", "", "", "")); err != nil {
				return nil, err
			}
			continue
		}
		for _, task := range record.Result.Tasks {
			deadline := "미정"
			if task.Deadline != nil {
				deadline = *task.Deadline
			}
			assignee := "미정"
			if task.Assignee != nil {
				assignee = *task.Assignee
			}
			if err := w.Write(append(base, task.Description, task.Priority, deadline, assignee)); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
