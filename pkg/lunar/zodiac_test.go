package lunar

import (
	"testing"
	"time"
)

func TestZodiac(t *testing.T) {
	tests := []struct {
		date     time.Time
		expected ZodiacSign
	}{
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Aries},        // day 1
		{time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC), Taurus},     // day 31: 31/365*12 = 1.02
		{time.Date(2025, 1, 30, 12, 0, 0, 0, time.UTC), Aries},      // day 30: 0.99
		{time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), Libra},        // day 183: 6.02
		{time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), Aries},      // day 365 wraps to index 0
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), Aries},      // leap year day 366
		{time.Date(2024, 12, 29, 0, 0, 0, 0, time.UTC), Pisces},     // leap year day 364: 11.97
		{time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), Pisces},      // day 335: 11.01
		{time.Date(2025, 10, 17, 12, 0, 0, 0, time.UTC), Capricorn}, // day 290: 9.53
	}

	for _, tt := range tests {
		if got := Zodiac(tt.date); got != tt.expected {
			t.Errorf("Zodiac(%s) = %s, expected %s", tt.date.Format("2006-01-02"), got, tt.expected)
		}
	}
}

func TestZodiacAlwaysValid(t *testing.T) {
	valid := make(map[ZodiacSign]bool)
	for _, s := range ZodiacSigns {
		valid[s] = true
	}
	if len(valid) != 12 {
		t.Fatalf("expected 12 distinct signs, got %d", len(valid))
	}

	seen := make(map[ZodiacSign]bool)
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 3*366; d++ {
		date := start.AddDate(0, 0, d)
		sign := Zodiac(date)
		if !valid[sign] {
			t.Fatalf("Zodiac(%v) = %q, not a known sign", date, sign)
		}
		seen[sign] = true
	}
	if len(seen) != 12 {
		t.Errorf("saw %d signs over three years, expected 12", len(seen))
	}
}

func TestZodiacConstantWithinBucket(t *testing.T) {
	// All hours of a calendar day share a day-of-year and so a sign
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	expected := Zodiac(day)
	for h := 1; h < 24; h++ {
		if got := Zodiac(day.Add(time.Duration(h) * time.Hour)); got != expected {
			t.Errorf("hour %d: Zodiac = %s, expected %s", h, got, expected)
		}
	}

	for d := 1; d <= 365; d++ {
		date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d-1)
		if ZodiacSigns[zodiacIndex(date)] != Zodiac(date) {
			t.Fatalf("day %d: index and sign disagree", d)
		}
	}
}
