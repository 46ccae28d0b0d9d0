package main

import "testing"

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		out  []string
	}{
		{
			name: "Maps double dash trigger",
			in:   []string{"screen-region-capture", "--trigger"},
			out:  []string{"screen-region-capture", "-trigger"},
		},
		{
			name: "Maps equals form",
			in:   []string{"screen-region-capture", "--trigger=true"},
			out:  []string{"screen-region-capture", "-trigger=true"},
		},
		{
			name: "Leaves other flags unchanged",
			in:   []string{"screen-region-capture", "-trigger", "--other"},
			out:  []string{"screen-region-capture", "-trigger", "--other"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeArgs(tt.in)
			if len(got) != len(tt.out) {
				t.Fatalf("Expected len=%d, got %d", len(tt.out), len(got))
			}
			for i := range got {
				if got[i] != tt.out[i] {
					t.Fatalf("Expected arg[%d]=%q, got %q", i, tt.out[i], got[i])
				}
			}
		})
	}
}
