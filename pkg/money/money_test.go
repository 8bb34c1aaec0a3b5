package money

import "testing"

func TestApplyPercent(t *testing.T) {
	tests := []struct {
		name   string
		amount Cents
		pct    int64
		want   Cents
	}{
		{"fifteen percent of 84.97 rounds up", 8497, 15, 1275},
		{"ten percent exact", 5000, 10, 500},
		{"rounds half up", 1050, 5, 53}, // 52.5 -> 53
		{"zero amount", 0, 15, 0},
		{"zero percent", 8497, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplyPercent(tt.amount, tt.pct); got != tt.want {
				t.Errorf("ApplyPercent(%d, %d) = %d, want %d", tt.amount, tt.pct, got, tt.want)
			}
		})
	}
}

func TestApplyBasisPoints(t *testing.T) {
	// 8.75% of 72.22 = 6.319... -> 6.32
	if got := ApplyBasisPoints(7222, 875); got != 632 {
		t.Errorf("ApplyBasisPoints(7222, 875) = %d, want 632", got)
	}
	if got := ApplyBasisPoints(0, 875); got != 0 {
		t.Errorf("expected 0 for zero amount, got %d", got)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		amount Cents
		want   string
	}{
		{8497, "84.97"},
		{1275, "12.75"},
		{0, "0.00"},
		{5, "0.05"},
		{-250, "-2.50"},
	}

	for _, tt := range tests {
		if got := tt.amount.Format(); got != tt.want {
			t.Errorf("Cents(%d).Format() = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in      string
		want    Cents
		wantErr bool
	}{
		{"29.99", 2999, false},
		{"24.99", 2499, false},
		{"100", 10000, false},
		{"0.5", 50, false},
		{"-2.50", -250, false},
		{"1.999", 0, true},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDecimal(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDecimal(%q): expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDecimal(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDecimal(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
