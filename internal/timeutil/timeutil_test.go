package timeutil

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-01-02")
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if got := FormatDate(parsed); got != "2024-01-02" {
		t.Fatalf("expected formatted date to round-trip, got %s", got)
	}
}

func TestFormatDateUsesLocation(t *testing.T) {
	loc := time.FixedZone("test", -5*60*60)
	value := time.Date(2024, 1, 2, 23, 0, 0, 0, loc)
	if got := FormatDate(value); got != "2024-01-02" {
		t.Fatalf("expected formatted date, got %s", got)
	}
}

func TestParseOptionalDateDegradesToNil(t *testing.T) {
	for _, raw := range []string{"", "   ", "not-a-date", "2024-13-40", "2024/01/02"} {
		if got := ParseOptionalDate(raw); got != nil {
			t.Fatalf("expected nil for %q, got %v", raw, got)
		}
	}
	got := ParseOptionalDate("2013-09-17")
	if got == nil || FormatDate(*got) != "2013-09-17" {
		t.Fatalf("expected parsed date, got %v", got)
	}
}

func TestFormatOptionalDate(t *testing.T) {
	if FormatOptionalDate(nil) != nil {
		t.Fatal("expected nil for absent date")
	}
	d := time.Date(2020, 5, 6, 0, 0, 0, 0, time.UTC)
	if got := FormatOptionalDate(&d); got == nil || *got != "2020-05-06" {
		t.Fatalf("unexpected formatted date %v", got)
	}
}

func TestYearBounds(t *testing.T) {
	if got := FormatDate(YearStart(2015)); got != "2015-01-01" {
		t.Fatalf("unexpected year start %s", got)
	}
	if got := FormatDate(YearEnd(2015)); got != "2015-12-31" {
		t.Fatalf("unexpected year end %s", got)
	}
}
