package core

import (
	"testing"
)

func TestEntropy(t *testing.T) {
	uniform := make([]byte, 256)
	for i := range uniform {
		uniform[i] = byte(i)
	}

	tests := []struct {
		name string
		data []byte
		want float64
	}{
		{"empty input", nil, 0},
		{"single repeated byte", []byte("aaaaaaaa"), 0},
		{"two symbols equal halves", []byte("aabb"), 1.0},
		{"uniform distribution", uniform, 8.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Entropy(tt.data)
			if RoundEntropy(got) != tt.want {
				t.Errorf("Entropy(%q) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}

func TestEntropyPrefixWindow(t *testing.T) {
	// Entropy over a prefix must equal entropy of that prefix taken alone
	data := append([]byte("aabb"), make([]byte, 1024)...)
	if got, want := Entropy(data[:4]), 1.0; got != want {
		t.Errorf("Entropy(prefix) = %v, want %v", got, want)
	}
}

func TestRoundEntropy(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{7.654321, 7.65},
		{7.656, 7.66},
		{6.799999, 6.8},
	}

	for _, tt := range tests {
		if got := RoundEntropy(tt.in); got != tt.want {
			t.Errorf("RoundEntropy(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
