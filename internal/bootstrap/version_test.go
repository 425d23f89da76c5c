// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package bootstrap

import "testing"

// TestParseRuntimeVersion tests parsing of interpreter version output
func TestParseRuntimeVersion(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    Version
		wantErr bool
	}{
		{name: "standard output", output: "Python 3.10.2", want: Version{3, 10, 2}, wantErr: false},
		{name: "trailing newline", output: "Python 3.8.0\n", want: Version{3, 8, 0}, wantErr: false},
		{name: "bare version", output: "3.12.1", want: Version{3, 12, 1}, wantErr: false},
		{name: "no patch", output: "Python 3.9", want: Version{3, 9, 0}, wantErr: false},
		{name: "patch suffix", output: "Python 3.10.2+", want: Version{3, 10, 2}, wantErr: false},
		{name: "python 2", output: "Python 2.7.18", want: Version{2, 7, 18}, wantErr: false},
		{name: "empty", output: "", wantErr: true},
		{name: "whitespace only", output: "   \n", wantErr: true},
		{name: "no dots", output: "Python three", wantErr: true},
		{name: "non-numeric major", output: "Python x.8.0", wantErr: true},
		{name: "non-numeric minor", output: "Python 3.y.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRuntimeVersion(tt.output)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got version %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

// TestVersionAtLeast tests version comparison against the minimum runtime
func TestVersionAtLeast(t *testing.T) {
	tests := []struct {
		name string
		v    Version
		min  Version
		want bool
	}{
		{name: "equal", v: Version{3, 8, 0}, min: Version{3, 8, 0}, want: true},
		{name: "newer minor", v: Version{3, 10, 0}, min: Version{3, 8, 0}, want: true},
		{name: "newer major", v: Version{4, 0, 0}, min: Version{3, 8, 0}, want: true},
		{name: "older minor", v: Version{3, 7, 9}, min: Version{3, 8, 0}, want: false},
		{name: "older major", v: Version{2, 7, 18}, min: Version{3, 8, 0}, want: false},
		{name: "patch ignored", v: Version{3, 8, 0}, min: Version{3, 8, 99}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.AtLeast(tt.min); got != tt.want {
				t.Errorf("%s.AtLeast(%s): expected %v, got %v", tt.v, tt.min, tt.want, got)
			}
		})
	}
}

// TestVersionString tests version rendering
func TestVersionString(t *testing.T) {
	v := Version{Major: 3, Minor: 10, Patch: 2}
	if got := v.String(); got != "3.10.2" {
		t.Errorf("expected 3.10.2, got %s", got)
	}
}
