package mailparse

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/emersion/go-message/mail"
)

// Source kinds accepted by Parse.
const (
	SourceEML  = "eml"
	SourceText = "text"
)

// EmailRecord is the canonical form every email input is normalized into.
// FullContent is the single string handed to the extraction stage.
type EmailRecord struct {
	Subject     string `json:"subject"`
	Sender      string `json:"sender"`
	Recipients  string `json:"recipients"`
	Date        string `json:"date"`
	Body        string `json:"body"`
	FullContent string `json:"full_content"`
}

// ParseError indicates the input envelope was empty or unreadable.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse email: %s", e.Reason)
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Parse normalizes raw bytes into an EmailRecord based on the declared
// source kind. Unknown kinds are treated as plain text.
func Parse(raw []byte, kind string) (EmailRecord, error) {
	if kind == SourceEML {
		return ParseEML(raw)
	}
	return ParsePlainText(raw)
}

// KindForFileName maps an uploaded file name to a source kind.
func KindForFileName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".eml", ".msg":
		return SourceEML
	default:
		return SourceText
	}
}

// ParseEML parses an RFC 2822 message, preferring the first text/plain
// part and falling back to the first text/html part with tags stripped.
// Messages that cannot be read as MIME are treated as plain text.
func ParseEML(raw []byte) (EmailRecord, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return ParsePlainText(raw)
	}
	defer mr.Close()

	subject, _ := mr.Header.Subject()
	sender := cleanText(mr.Header.Get("From"))
	recipients := cleanText(mr.Header.Get("To"))
	date := cleanText(mr.Header.Get("Date"))

	var plainBody, htmlBody string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := header.ContentType()
		content, readErr := io.ReadAll(part.Body)
		if readErr != nil {
			continue
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain") && plainBody == "":
			plainBody = cleanText(string(content))
		case strings.HasPrefix(contentType, "text/html") && htmlBody == "":
			htmlBody = cleanText(string(content))
		}
	}

	body := plainBody
	if body == "" && htmlBody != "" {
		body = strings.TrimSpace(tagPattern.ReplaceAllString(htmlBody, ""))
	}

	subject = cleanText(subject)
	if subject == "" && sender == "" && recipients == "" && date == "" && body == "" {
		return EmailRecord{}, &ParseError{Reason: "empty envelope"}
	}

	return build(subject, sender, recipients, date, body), nil
}

// ParsePlainText treats the entire input as the body with empty headers.
func ParsePlainText(raw []byte) (EmailRecord, error) {
	body := cleanText(string(raw))
	if body == "" {
		return EmailRecord{}, &ParseError{Reason: "empty input"}
	}
	return build("", "", "", "", body), nil
}

// NewRecord assembles an EmailRecord from already-separated fields, as
// submitted by API clients that provide the envelope directly.
func NewRecord(subject, sender, recipients, date, body string) (EmailRecord, error) {
	subject = cleanText(subject)
	body = cleanText(body)
	if subject == "" && body == "" {
		return EmailRecord{}, &ParseError{Reason: "empty envelope"}
	}
	return build(subject, cleanText(sender), cleanText(recipients), cleanText(date), body), nil
}

func build(subject, sender, recipients, date, body string) EmailRecord {
	rec := EmailRecord{
		Subject:    subject,
		Sender:     sender,
		Recipients: recipients,
		Date:       date,
		Body:       body,
	}
	rec.FullContent = fmt.Sprintf(
		"제목: %s\n발신자: %s\n수신자: %s\n날짜: %s\n\n%s",
		rec.Subject, rec.Sender, rec.Recipients, rec.Date, rec.Body,
	)
	return rec
}

// cleanText drops invalid UTF-8 sequences and surrounding whitespace.
func cleanText(s string) string {
	return strings.TrimSpace(strings.ToValidUTF8(s, ""))
}
