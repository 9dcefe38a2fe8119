package analyses

import (
	"testing"
)

const fencedReply = "다음은 분석 결과입니다.\n" +
	"```json\n" +
	`{
  "summary": "예산 검토 요청",
  "key_points": ["예산안 검토", "기한 엄수"],
  "tasks": [
    {"task": "예산안 검토", "priority": "HIGH", "deadline": "3일", "assignee": "김대리"},
    {"task": "보고서 공유", "priority": "unknown", "deadline": "null", "assignee": null}
  ],
  "action_items": ["예산안 열람"],
  "follow_up": "검토 후 회신",
  "sentiment": "positive",
  "urgency_level": "high"
}` + "\n```\n감사합니다."

func TestRepairFencedBlock(t *testing.T) {
	result, degraded := Repair(fencedReply)
	if degraded {
		t.Fatal("valid fenced reply must not degrade")
	}
	if result.Summary != "예산 검토 요청" {
		t.Fatalf("summary = %q", result.Summary)
	}
	if len(result.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(result.Tasks))
	}
	if result.Tasks[0].Priority != PriorityHigh {
		t.Fatalf("priority not normalized: %q", result.Tasks[0].Priority)
	}
	if result.Tasks[1].Priority != PriorityMedium {
		t.Fatalf("unknown priority must default to medium: %q", result.Tasks[1].Priority)
	}
	if result.Tasks[1].Deadline != nil {
		t.Fatalf("null sentinel deadline must normalize to nil: %v", *result.Tasks[1].Deadline)
	}
	if result.Tasks[1].Assignee != nil {
		t.Fatal("null assignee must stay nil")
	}
	if result.RawResponse != "" {
		t.Fatal("successful repair must not carry raw response")
	}
}

func TestRepairBareJSON(t *testing.T) {
	result, degraded := Repair(`{"summary":"ok","tasks":[]}`)
	if degraded {
		t.Fatal("bare JSON must parse")
	}
	if result.Summary != "ok" {
		t.Fatalf("summary = %q", result.Summary)
	}
}

func TestRepairFillsDefaults(t *testing.T) {
	result, degraded := Repair(`{"summary":"partial"}`)
	if degraded {
		t.Fatal("partial reply must not degrade")
	}
	if result.Sentiment != SentimentNeutral {
		t.Fatalf("sentiment default = %q", result.Sentiment)
	}
	if result.UrgencyLevel != PriorityMedium {
		t.Fatalf("urgency default = %q", result.UrgencyLevel)
	}
	if result.KeyPoints == nil || result.Tasks == nil || result.ActionItems == nil {
		t.Fatal("list fields must be non-nil")
	}
}

func TestRepairDegradedOnMalformedSyntax(t *testing.T) {
	raw := "죄송합니다, JSON을 생성할 수 없습니다 {summary:"
	result, degraded := Repair(raw)
	if !degraded {
		t.Fatal("malformed reply must degrade")
	}
	if result.RawResponse != raw {
		t.Fatalf("raw response = %q, must equal input exactly", result.RawResponse)
	}
	if result.Summary != degradedSummary || result.FollowUp != degradedFollowUp {
		t.Fatalf("degraded strings wrong: %q / %q", result.Summary, result.FollowUp)
	}
	if len(result.Tasks) != 0 || len(result.KeyPoints) != 0 || len(result.ActionItems) != 0 {
		t.Fatal("degraded result must have empty lists")
	}
	if result.Sentiment != SentimentNeutral || result.UrgencyLevel != PriorityMedium {
		t.Fatal("degraded enums must be neutral/medium")
	}
}

func TestRepairFirstFenceWins(t *testing.T) {
	raw := "```json\n{\"summary\":\"first\"}\n```\n" +
		"```json\n{\"summary\":\"second\"}\n```"
	result, degraded := Repair(raw)
	if degraded {
		t.Fatal("first fence is valid, must not degrade")
	}
	if result.Summary != "first" {
		t.Fatalf("summary = %q, first fenced block must win", result.Summary)
	}
}

func TestRepairDropsEmptyTaskDescriptions(t *testing.T) {
	result, degraded := Repair(`{"tasks":[{"task":"  "},{"task":"real"}]}`)
	if degraded {
		t.Fatal("must not degrade")
	}
	if len(result.Tasks) != 1 || result.Tasks[0].Description != "real" {
		t.Fatalf("tasks = %+v", result.Tasks)
	}
}
