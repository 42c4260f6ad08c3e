package validate

import (
	"testing"
)

func TestStation(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{name: "simple id", raw: "10", want: 10},
		{name: "zero padded", raw: "000010", want: 10},
		{name: "letters", raw: "ab", wantErr: true},
		{name: "mixed", raw: "1a", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "negative", raw: "-10", wantErr: true},
		{name: "non-ascii digits", raw: "١٠", wantErr: true},
		{name: "whitespace", raw: " 10", wantErr: true},
		{name: "overflow", raw: "99999999999999999999999", want: UnknownStation},
		{name: "padded past table width", raw: "0000010", want: UnknownStation},
		{name: "seven digits", raw: "1234567", want: 1234567},
		{name: "zero", raw: "0", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Station(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Station(%q) expected error, got %d", tt.raw, got)
				}
				if !IsValidationError(err) {
					t.Fatalf("Station(%q) error %v is not a ValidationError", tt.raw, err)
				}
				if err.Error() != "invalid station format" {
					t.Errorf("unexpected message %q", err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Station(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Station(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "19881025", want: "1988-10-25"},
		{raw: "20001301", want: "2000-13-01"},
		{raw: "123455", wantErr: true},
		{raw: "dfs951", wantErr: true},
		{raw: "1988102", wantErr: true},
		{raw: "198810255", wantErr: true},
		{raw: "1988-10-2", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := Date(tt.raw)
		if tt.wantErr {
			if !IsValidationError(err) {
				t.Errorf("Date(%q) expected ValidationError, got %v", tt.raw, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Date(%q) unexpected error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Date(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestYear(t *testing.T) {
	valid := []string{"1988", "0001", "2024"}
	for _, raw := range valid {
		got, err := Year(raw)
		if err != nil {
			t.Errorf("Year(%q) unexpected error: %v", raw, err)
		}
		if got != raw {
			t.Errorf("Year(%q) = %q", raw, got)
		}
	}

	invalid := []string{"19888", "198a", "88", "", "19 8"}
	for _, raw := range invalid {
		_, err := Year(raw)
		if !IsValidationError(err) {
			t.Errorf("Year(%q) expected ValidationError, got %v", raw, err)
			continue
		}
		if err.Error() != "invalid year format or length" {
			t.Errorf("Year(%q) message = %q", raw, err.Error())
		}
	}
}
