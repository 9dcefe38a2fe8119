package mailparse

import (
	"errors"
	"strings"
	"testing"
)

const sampleEML = "From: boss@example.com\r\n" +
	"To: team@example.com\r\n" +
	"Subject: Budget review\r\n" +
	"Date: Mon, 02 Jun 2025 09:00:00 +0900\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Please review the budget. 마감: 3일\r\n"

const sampleHTMLEML = "From: boss@example.com\r\n" +
	"To: team@example.com\r\n" +
	"Subject: Quarterly plan\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<html><body><p>Review the <b>plan</b> today.</p></body></html>\r\n"

func TestParseEMLPlainText(t *testing.T) {
	rec, err := ParseEML([]byte(sampleEML))
	if err != nil {
		t.Fatalf("ParseEML returned error: %v", err)
	}
	if rec.Subject != "Budget review" {
		t.Fatalf("subject = %q", rec.Subject)
	}
	if rec.Sender != "boss@example.com" {
		t.Fatalf("sender = %q", rec.Sender)
	}
	if rec.Recipients != "team@example.com" {
		t.Fatalf("recipients = %q", rec.Recipients)
	}
	if !strings.Contains(rec.Body, "마감: 3일") {
		t.Fatalf("body missing deadline text: %q", rec.Body)
	}
	if !strings.HasPrefix(rec.FullContent, "제목: Budget review\n발신자: boss@example.com\n") {
		t.Fatalf("full content header lines wrong: %q", rec.FullContent)
	}
	if !strings.HasSuffix(rec.FullContent, "\n\n"+rec.Body) {
		t.Fatalf("full content does not end with body: %q", rec.FullContent)
	}
}

func TestParseEMLHTMLFallbackStripsTags(t *testing.T) {
	rec, err := ParseEML([]byte(sampleHTMLEML))
	if err != nil {
		t.Fatalf("ParseEML returned error: %v", err)
	}
	if strings.ContainsAny(rec.Body, "<>") {
		t.Fatalf("body still contains markup: %q", rec.Body)
	}
	if !strings.Contains(rec.Body, "Review the plan today.") {
		t.Fatalf("body = %q", rec.Body)
	}
}

func TestParseEMLIdempotent(t *testing.T) {
	first, err := ParseEML([]byte(sampleEML))
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}
	second, err := ParseEML([]byte(sampleEML))
	if err != nil {
		t.Fatalf("second parse: %v", err)
	}
	if first != second {
		t.Fatalf("records differ:\n%+v\n%+v", first, second)
	}
}

func TestParsePlainText(t *testing.T) {
	rec, err := ParsePlainText([]byte("Please review the budget. 마감: 3일"))
	if err != nil {
		t.Fatalf("ParsePlainText returned error: %v", err)
	}
	if rec.Subject != "" || rec.Sender != "" {
		t.Fatalf("plain text should have empty headers: %+v", rec)
	}
	if rec.Body != "Please review the budget. 마감: 3일" {
		t.Fatalf("body = %q", rec.Body)
	}
	if rec.FullContent == "" {
		t.Fatal("full content must not be empty when body is set")
	}
}

func TestParsePlainTextDropsInvalidBytes(t *testing.T) {
	raw := append([]byte("hello "), 0xff, 0xfe)
	raw = append(raw, []byte("world")...)
	rec, err := ParsePlainText(raw)
	if err != nil {
		t.Fatalf("ParsePlainText returned error: %v", err)
	}
	if rec.Body != "hello world" {
		t.Fatalf("body = %q", rec.Body)
	}
}

func TestParsePlainTextEmptyFails(t *testing.T) {
	_, err := ParsePlainText([]byte("   \n  "))
	if err == nil {
		t.Fatal("expected error for empty input")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T", err)
	}
}

func TestNewRecordRequiresContent(t *testing.T) {
	if _, err := NewRecord("", "a@b.c", "d@e.f", "today", ""); err == nil {
		t.Fatal("expected error when subject and body are both empty")
	}
	rec, err := NewRecord("Subject only", "", "", "", "")
	if err != nil {
		t.Fatalf("subject-only record should succeed: %v", err)
	}
	if rec.FullContent == "" {
		t.Fatal("full content must not be empty when subject is set")
	}
}

func TestKindForFileName(t *testing.T) {
	cases := map[string]string{
		"mail.eml":  SourceEML,
		"MAIL.EML":  SourceEML,
		"notes.msg": SourceEML,
		"notes.txt": SourceText,
		"noext":     SourceText,
	}
	for name, want := range cases {
		if got := KindForFileName(name); got != want {
			t.Fatalf("KindForFileName(%q) = %q, want %q", name, got, want)
		}
	}
}
