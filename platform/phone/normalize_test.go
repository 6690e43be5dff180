package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "06 12 34 56 78", want: "+33612345678"},
		{in: "+33 1 42 68 53 00", want: "+33142685300"},
		{in: "  ", want: ""},
		{in: "not a number", want: "not a number"},
	}
	for _, tt := range tests {
		if got := NormalizeE164(tt.in); got != tt.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplayFrenchNumber(t *testing.T) {
	if got := Display("+33612345678"); got != "06 12 34 56 78" {
		t.Fatalf("unexpected display %q", got)
	}
}
