package analyses

import (
	"testing"
	"time"
)

var resolutionNow = time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

func TestResolveDeadlineISO(t *testing.T) {
	got := ResolveDeadline("2025-03-10", resolutionNow)
	if !got.Resolved {
		t.Fatal("ISO date should resolve")
	}
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Date.Equal(want) {
		t.Fatalf("date = %v, want %v", got.Date, want)
	}
}

func TestResolveDeadlineRelativeDays(t *testing.T) {
	cases := []struct {
		expr string
		days int
	}{
		{"5", 5},
		{"3일", 3},
		{"3일 후", 3},
		{"7일 이내", 7},
	}
	for _, tc := range cases {
		got := ResolveDeadline(tc.expr, resolutionNow)
		if !got.Resolved {
			t.Fatalf("%q should resolve", tc.expr)
		}
		want := resolutionNow.AddDate(0, 0, tc.days)
		if !got.Date.Equal(want) {
			t.Fatalf("%q: date = %v, want %v", tc.expr, got.Date, want)
		}
	}
}

func TestResolveDeadlineMonthDayPhrase(t *testing.T) {
	got := ResolveDeadline("6월 15일", resolutionNow)
	if !got.Resolved {
		t.Fatal("month-day phrase should resolve")
	}
	want := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	if !got.Date.Equal(want) {
		t.Fatalf("date = %v, want %v", got.Date, want)
	}
}

func TestResolveDeadlineShortForm(t *testing.T) {
	got := ResolveDeadline("12/25", resolutionNow)
	if !got.Resolved {
		t.Fatal("MM/DD should resolve")
	}
	want := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)
	if !got.Date.Equal(want) {
		t.Fatalf("date = %v, want %v", got.Date, want)
	}
}

func TestResolveDeadlineFallback(t *testing.T) {
	got := ResolveDeadline("not a date", resolutionNow)
	if got.Resolved {
		t.Fatal("free text must be unresolved")
	}
	want := resolutionNow.AddDate(0, 0, 7)
	if !got.Date.Equal(want) {
		t.Fatalf("fallback date = %v, want %v", got.Date, want)
	}
	if got.Display != "not a date" {
		t.Fatalf("display = %q, original text must be preserved", got.Display)
	}
}

func TestResolveDeadlineInvalidCalendarValues(t *testing.T) {
	got := ResolveDeadline("13/45", resolutionNow)
	if got.Resolved {
		t.Fatal("impossible month/day must fall back")
	}
}
