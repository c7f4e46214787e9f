package models

import (
	"errors"
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain day", input: "2024-06-01", want: "2024-06-01"},
		{name: "surrounding space", input: " 2024-06-01 ", want: "2024-06-01"},
		{name: "rfc3339 keeps written day", input: "2024-06-01T23:59:00-07:00", want: "2024-06-01"},
		{name: "iso without zone", input: "2024-02-29T08:00:00", want: "2024-02-29"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "someday", wantErr: true},
		{name: "impossible day", input: "2024-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDay(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				var perr *ParseError
				if !errors.As(err, &perr) {
					t.Errorf("ParseDay(%q) error type = %T, want *ParseError", tt.input, err)
				}
				return
			}
			if FormatDay(got) != tt.want {
				t.Errorf("ParseDay(%q) = %s, want %s", tt.input, FormatDay(got), tt.want)
			}
			if got.Hour() != 0 || got.Minute() != 0 || got.Location() != time.UTC {
				t.Errorf("ParseDay(%q) = %v, want UTC midnight", tt.input, got)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	ref := time.Date(2024, 6, 2, 18, 30, 0, 0, time.Local)
	due, _ := ParseDay("2024-06-05")
	if got := DaysBetween(ref, due); got != 3 {
		t.Errorf("DaysBetween() = %d, want 3", got)
	}
	past, _ := ParseDay("2024-05-31")
	if got := DaysBetween(ref, past); got != -2 {
		t.Errorf("DaysBetween() = %d, want -2", got)
	}
	// Crossing a month and leap day.
	a, _ := ParseDay("2024-02-28")
	b, _ := ParseDay("2024-03-01")
	if got := DaysBetween(a, b); got != 2 {
		t.Errorf("DaysBetween(leap) = %d, want 2", got)
	}
}

func TestAddDays(t *testing.T) {
	start, _ := ParseDay("2024-12-30")
	if got := FormatDay(AddDays(start, 3)); got != "2025-01-02" {
		t.Errorf("AddDays() = %s, want 2025-01-02", got)
	}
}

func TestResolveDay(t *testing.T) {
	today := time.Date(2024, 6, 5, 22, 30, 0, 0, time.UTC)
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "", want: "2024-06-05"},
		{input: "Today", want: "2024-06-05"},
		{input: "tomorrow", want: "2024-06-06"},
		{input: "yesterday", want: "2024-06-04"},
		{input: "2024-12-31", want: "2024-12-31"},
		{input: "next week", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ResolveDay(tt.input, today)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveDay(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && FormatDay(got) != tt.want {
				t.Errorf("ResolveDay(%q) = %s, want %s", tt.input, FormatDay(got), tt.want)
			}
		})
	}
}
