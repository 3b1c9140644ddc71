package util

import (
	"testing"
	"time"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("timezone %s unavailable: %v", name, err)
	}
	return loc
}

func TestValidateNotFutureDate(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 1, 23, 15, 30, 0, 0, loc)
	todayDay := startOfDay(now, loc)

	tests := []struct {
		name    string
		date    time.Time
		wantErr bool
	}{
		{
			name:    "yesterday should be allowed",
			date:    todayDay.AddDate(0, 0, -1),
			wantErr: false,
		},
		{
			name:    "today should be allowed",
			date:    todayDay,
			wantErr: false,
		},
		{
			name:    "later today should be allowed",
			date:    now.Add(2 * time.Hour),
			wantErr: false,
		},
		{
			name:    "tomorrow should be rejected",
			date:    todayDay.AddDate(0, 0, 1),
			wantErr: true,
		},
		{
			name:    "far future should be rejected",
			date:    todayDay.AddDate(1, 0, 0),
			wantErr: true,
		},
		{
			name:    "far past should be allowed",
			date:    todayDay.AddDate(-1, 0, 0),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNotFutureDate(tt.date, now, loc)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNotFutureDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != nil && err.Error() != "release date cannot be in the future" {
				t.Errorf("ValidateNotFutureDate() error message = %v, want 'release date cannot be in the future'", err.Error())
			}
		})
	}
}

func TestParseDateIn(t *testing.T) {
	tests := []struct {
		name    string
		dateStr string
		wantErr bool
	}{
		{
			name:    "valid date string",
			dateStr: "2026-01-23",
			wantErr: false,
		},
		{
			name:    "invalid date string",
			dateStr: "invalid",
			wantErr: true,
		},
		{
			name:    "empty string",
			dateStr: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDateIn(tt.dateStr, time.UTC)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDateIn() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	ist := mustLoad(t, "Asia/Kolkata")
	parsed, err := ParseDateIn("2026-01-23", ist)
	if err != nil {
		t.Fatalf("ParseDateIn() failed: %v", err)
	}
	if parsed.Location() != ist {
		t.Errorf("ParseDateIn() location = %v, want %v", parsed.Location(), ist)
	}
	if parsed.Hour() != 0 || parsed.Minute() != 0 || parsed.Second() != 0 {
		t.Errorf("ParseDateIn() should return start of day (00:00:00)")
	}
	// Midnight IST is 18:30 UTC the previous day.
	if utc := parsed.UTC(); utc.Day() != 22 || utc.Hour() != 18 || utc.Minute() != 30 {
		t.Errorf("ParseDateIn() UTC = %v, want 2026-01-22 18:30", utc)
	}
}

func TestInZone(t *testing.T) {
	ist := mustLoad(t, "Asia/Kolkata")
	stored := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	shown := InZone(stored, ist)
	if shown.Day() != 2 || shown.Hour() != 1 || shown.Minute() != 30 {
		t.Errorf("InZone() = %v, want 2026-03-02 01:30 IST", shown)
	}
	if !shown.Equal(stored) {
		t.Errorf("InZone() changed the instant: %v != %v", shown, stored)
	}
	if !InZone(time.Time{}, ist).IsZero() {
		t.Errorf("InZone() of zero time should stay zero")
	}
}

func TestFormatInZone(t *testing.T) {
	ist := mustLoad(t, "Asia/Kolkata")
	stored := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	if got, want := FormatInZone(stored, ist), "02 Mar 2026, 01:30 AM"; got != want {
		t.Errorf("FormatInZone() = %q, want %q", got, want)
	}
	if got := FormatInZone(time.Time{}, ist); got != "" {
		t.Errorf("FormatInZone() of zero time = %q, want empty", got)
	}
}
