package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"time"

	"mailwork-backend/internal/analyses"
	"mailwork-backend/internal/shared/util"
)

const icsTimeLayout = "20060102T150405Z"

// priorityNumeric maps the task priority enum to iCalendar PRIORITY.
func priorityNumeric(priority string) int {
	switch priority {
	case analyses.PriorityHigh:
		return 1
	case analyses.PriorityLow:
		return 5
	default:
		return 3
	}
}

// EncodeTaskEvent renders one task as a standalone VCALENDAR document.
// DTSTART and DTEND are identical: the event marks a deadline, not a
// duration. Returns nil when the task has no deadline.
func EncodeTaskEvent(task analyses.Task, emailSubject string, now time.Time, seq int) []byte {
	if task.Deadline == nil {
		return nil
	}
	resolved := analyses.ResolveDeadline(*task.Deadline, now)

	assignee := "미정"
	if task.Assignee != nil {
		assignee = *task.Assignee
	}
	priority := task.Priority
	if priority == "" {
		priority = analyses.PriorityMedium
	}
	summary := task.Description
	if summary == "" {
		summary = "할일"
	}

	uid := fmt.Sprintf("email-task-%s-%d", now.UTC().Format("20060102150405"), seq)
	dueDate := resolved.Date.UTC().Format(icsTimeLayout)
	stamp := now.UTC().Format(icsTimeLayout)
	description := fmt.Sprintf(`우선순위: %s\n담당자: %s\n관련 이메일: %s`, priority, assignee, emailSubject)

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Email Analyzer//Task//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + uid,
		"DTSTART:" + dueDate,
		"DTEND:" + dueDate,
		"DTSTAMP:" + stamp,
		"SUMMARY:" + summary,
		"DESCRIPTION:" + description,
		fmt.Sprintf("PRIORITY:%d", priorityNumeric(priority)),
		"STATUS:NEEDS-ACTION",
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

// EncodeCalendarZip renders every task with a deadline as its own .ics
// archive member. Member names derive from the task description,
// truncated and sanitized for path safety.
func EncodeCalendarZip(tasks []analyses.Task, emailSubject string, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for i, task := range tasks {
		doc := EncodeTaskEvent(task, emailSubject, now, i+1)
		if doc == nil {
			continue
		}
		name := task.Description
		if name == "" {
			name = "task"
		}
		if runes := []rune(name); len(runes) > 20 {
			name = string(runes[:20])
		}
		fileName := util.SanitizeArchiveMemberName(fmt.Sprintf("task_%d_%s.ics", i+1, name))
		w, err := zw.Create(fileName)
		if err != nil {
			return nil, fmt.Errorf("zip member %s: %w", fileName, err)
		}
		if _, err := w.Write(doc); err != nil {
			return nil, fmt.Errorf("zip write %s: %w", fileName, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}
