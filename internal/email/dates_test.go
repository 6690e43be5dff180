package email

import (
	"testing"
	"time"
)

func TestFormatDateTime(t *testing.T) {
	if siteLocation == time.UTC {
		t.Skip("time zone database unavailable")
	}
	// 09:00 UTC is 10:00 in Paris in winter and 11:00 in summer.
	tests := map[time.Time]string{
		time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC):  "lundi 2 mars 2026 à 10:00",
		time.Date(2026, 8, 15, 9, 5, 0, 0, time.UTC): "samedi 15 août 2026 à 11:05",
	}
	for in, want := range tests {
		if got := FormatDateTime(in); got != want {
			t.Errorf("FormatDateTime(%s) = %q, want %q", in, got, want)
		}
	}
}
