package services

import (
	"errors"
	"testing"
	"time"
)

func futureOptions(base time.Duration) [3]time.Time {
	start := time.Now().Add(base)
	return [3]time.Time{
		start,
		start.Add(24 * time.Hour),
		start.Add(48 * time.Hour),
	}
}

func TestValidateOptionsAcceptsDistinctFutureTimes(t *testing.T) {
	if err := validateOptions(futureOptions(time.Hour)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateOptionsRejectsPastTime(t *testing.T) {
	options := futureOptions(time.Hour)
	options[1] = time.Now().Add(-2 * time.Hour)

	if err := validateOptions(options); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions, got %v", err)
	}
}

func TestValidateOptionsRejectsZeroValue(t *testing.T) {
	options := futureOptions(time.Hour)
	options[2] = time.Time{}

	if err := validateOptions(options); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions, got %v", err)
	}
}

func TestValidateOptionsRejectsDuplicates(t *testing.T) {
	options := futureOptions(time.Hour)
	options[2] = options[0]

	if err := validateOptions(options); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions, got %v", err)
	}
}

func TestValidateOptionsAllowsJustStartedTime(t *testing.T) {
	// The one-minute grace keeps a slot valid while the request is in flight.
	options := futureOptions(time.Hour)
	options[0] = time.Now().Add(-30 * time.Second)

	if err := validateOptions(options); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalizeOptionsConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("CDT", -5*60*60)
	local := time.Date(2030, 6, 1, 10, 0, 0, 0, loc)
	options := normalizeOptions([3]time.Time{local, local.Add(time.Hour), local.Add(2 * time.Hour)})

	for i, option := range options {
		if option.Location() != time.UTC {
			t.Fatalf("option %d not in UTC: %v", i, option)
		}
	}
	if !options[0].Equal(local) {
		t.Fatalf("normalization must not change the instant")
	}
}
