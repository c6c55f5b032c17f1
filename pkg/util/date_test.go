package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseDate(t *testing.T) {
    got, err := ParseDate("2024-01-02")
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Fatalf("got %v want %v", got, want)
    }
    if _, err := ParseDate("02/01/2024"); err == nil {
        t.Fatalf("expected error for non ISO date")
    }
}

func TestFormatDateUsesUTC(t *testing.T) {
    loc := time.FixedZone("UTC-5", -5*3600)
    // 2024-01-02 21:00 at UTC-5 is already 2024-01-03 in UTC
    ts := time.Date(2024, 1, 2, 21, 0, 0, 0, loc)
    if got := FormatDate(ts); got != "2024-01-03" {
        t.Fatalf("unexpected date %s", got)
    }
}

func TestDefaultRange(t *testing.T) {
    now := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)
    from, to := DefaultRange(now)
    if FormatDate(from) != "2024-02-15" || FormatDate(to) != "2024-03-15" {
        t.Fatalf("unexpected range %s..%s", FormatDate(from), FormatDate(to))
    }
}
