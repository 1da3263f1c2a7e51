package auth

import "testing"

func TestMatchesChallenge(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		supplied string
		want     bool
	}{
		{name: "exact", expected: "verde", supplied: "verde", want: true},
		{name: "case folded", expected: "roșu", supplied: "Roșu", want: true},
		{name: "trimmed diacritics", expected: "roșu", supplied: " Roșu ", want: true},
		{name: "numeric", expected: "5", supplied: " 5", want: true},
		{name: "wrong answer", expected: "verde", supplied: "rosu", want: false},
		{name: "empty supplied", expected: "verde", supplied: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesChallenge(tt.expected, tt.supplied); got != tt.want {
				t.Fatalf("MatchesChallenge(%q, %q) = %v, want %v", tt.expected, tt.supplied, got, tt.want)
			}
		})
	}
}

func TestNewChallenge(t *testing.T) {
	for i := 0; i < 50; i++ {
		c := NewChallenge()
		if c.Question == "" || c.Answer == "" {
			t.Fatalf("empty challenge: %+v", c)
		}
		if c.Answer != foldAnswer(c.Answer) {
			t.Fatalf("answer not folded: %q", c.Answer)
		}
	}
}
