package analyses

import (
	"encoding/json"
	"regexp"
	"strings"
)

const (
	degradedSummary  = "분석 결과를 파싱하는 중 오류가 발생했습니다."
	degradedFollowUp = "다시 시도해주세요."
)

var jsonFencePattern = regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n\\s*```")

// rawResult mirrors the reply schema with loose types so a partially
// conforming reply still unmarshals.
type rawResult struct {
	Summary      string    `json:"summary"`
	KeyPoints    []string  `json:"key_points"`
	Tasks        []rawTask `json:"tasks"`
	ActionItems  []string  `json:"action_items"`
	FollowUp     string    `json:"follow_up"`
	Sentiment    string    `json:"sentiment"`
	UrgencyLevel string    `json:"urgency_level"`
}

type rawTask struct {
	Description string  `json:"task"`
	Priority    string  `json:"priority"`
	Deadline    *string `json:"deadline"`
	Assignee    *string `json:"assignee"`
}

// Repair turns the raw reply text into a structurally complete
// AnalysisResult. The second return value reports whether the degraded
// fallback was used. Repair never fails.
func Repair(raw string) (AnalysisResult, bool) {
	candidate := raw
	if match := jsonFencePattern.FindStringSubmatch(raw); match != nil {
		candidate = match[1]
	}

	var parsed rawResult
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return degradedResult(raw), true
	}

	result := AnalysisResult{
		Summary:      strings.TrimSpace(parsed.Summary),
		KeyPoints:    cleanStrings(parsed.KeyPoints),
		Tasks:        cleanTasks(parsed.Tasks),
		ActionItems:  cleanStrings(parsed.ActionItems),
		FollowUp:     strings.TrimSpace(parsed.FollowUp),
		Sentiment:    normalizeEnum(parsed.Sentiment, SentimentNeutral, SentimentPositive, SentimentNeutral, SentimentNegative),
		UrgencyLevel: normalizeEnum(parsed.UrgencyLevel, PriorityMedium, PriorityHigh, PriorityMedium, PriorityLow),
	}
	return result, false
}

func degradedResult(raw string) AnalysisResult {
	return AnalysisResult{
		Summary:      degradedSummary,
		KeyPoints:    []string{},
		Tasks:        []Task{},
		ActionItems:  []string{},
		FollowUp:     degradedFollowUp,
		Sentiment:    SentimentNeutral,
		UrgencyLevel: PriorityMedium,
		RawResponse:  raw,
	}
}

func cleanStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func cleanTasks(raw []rawTask) []Task {
	out := make([]Task, 0, len(raw))
	for _, t := range raw {
		description := strings.TrimSpace(t.Description)
		if description == "" {
			continue
		}
		out = append(out, Task{
			Description: description,
			Priority:    normalizeEnum(t.Priority, PriorityMedium, PriorityHigh, PriorityMedium, PriorityLow),
			Deadline:    normalizeOptional(t.Deadline),
			Assignee:    normalizeOptional(t.Assignee),
		})
	}
	return out
}

func normalizeEnum(value, fallback string, members ...string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, m := range members {
		if value == m {
			return m
		}
	}
	return fallback
}

// normalizeOptional maps empty and null-sentinel strings to nil.
func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	switch strings.ToLower(trimmed) {
	case "", "null", "none":
		return nil
	}
	return &trimmed
}
