package analyses

import "time"

const (
	StatusCompleted = "completed"
	StatusDegraded  = "degraded"
	StatusFailed    = "failed"
)

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Task is one extracted work item. Deadline and Assignee are nil when
// the reply omitted them or used a null sentinel.
type Task struct {
	Description string  `json:"task"`
	Priority    string  `json:"priority"`
	Deadline    *string `json:"deadline"`
	Assignee    *string `json:"assignee"`
}

// AnalysisResult is the structurally complete outcome of one analysis.
// RawResponse is set only on the degraded repair path.
type AnalysisResult struct {
	Summary      string   `json:"summary"`
	KeyPoints    []string `json:"key_points"`
	Tasks        []Task   `json:"tasks"`
	ActionItems  []string `json:"action_items"`
	FollowUp     string   `json:"follow_up"`
	Sentiment    string   `json:"sentiment"`
	UrgencyLevel string   `json:"urgency_level"`
	RawResponse  string   `json:"raw_response,omitempty"`
}

// Degraded reports whether the result came from the fallback repair path.
func (r AnalysisResult) Degraded() bool {
	return r.RawResponse != ""
}

// Analysis is one pipeline invocation recorded in the history log.
type Analysis struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	SourceKind    string          `json:"sourceKind"`
	Subject       string          `json:"subject"`
	Sender        string          `json:"sender"`
	Status        string          `json:"status"`
	Result        *AnalysisResult `json:"result,omitempty"`
	RawStorageKey string          `json:"-"`
	ErrorMessage  string          `json:"errorMessage,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}
