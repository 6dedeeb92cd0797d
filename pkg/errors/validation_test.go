package errors

import (
	"math"
	"testing"
)

func TestValidateSessionID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid v4", "0b7c1f0e-3a51-4c3e-9a57-2f8f3f0c1d2e", false},
		{"valid v7", "01890a5d-ac96-774b-bcce-b302099a8057", false},

		{"empty", "", true},
		{"not a uuid", "session-1", true},
		{"uppercase", "0B7C1F0E-3A51-4C3E-9A57-2F8F3F0C1D2E", true},
		{"braced", "{0b7c1f0e-3a51-4c3e-9a57-2f8f3f0c1d2e}", true},
		{"urn", "urn:uuid:0b7c1f0e-3a51-4c3e-9a57-2f8f3f0c1d2e", true},
		{"path traversal", "../../etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSessionID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSessionID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSession) {
				t.Errorf("ValidateSessionID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidSession)
			}
		})
	}
}

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantErr       bool
	}{
		{"default", 800, 600, false},
		{"square", 1, 1, false},
		{"max", MaxViewport, MaxViewport, false},

		{"zero width", 0, 600, true},
		{"negative height", 800, -1, true},
		{"too wide", MaxViewport + 1, 600, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.width, tt.height)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimensions(%d, %d) error = %v, wantErr %v", tt.width, tt.height, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFactor(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"grow", 0.2, false},
		{"shrink", -0.2, false},
		{"zero", 0, false},
		{"huge shrink", -100, false},
		{"largest growth", MaxFactor, false},
		{"largest shrink", -MaxFactor, false},

		{"too large", 1e300, true},
		{"just above bound", MaxFactor + 0.5, true},
		{"too negative", -1e300, true},

		{"nan", math.NaN(), true},
		{"+inf", math.Inf(1), true},
		{"-inf", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFactor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFactor(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "workshop", false},
		{"empty", "", false},
		{"special characters", "@#$%.txt", false},
		{"tab", "a\tb", false},

		{"newline", "a\nb", true},
		{"null byte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
