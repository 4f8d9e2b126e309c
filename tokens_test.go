package main

import "testing"

func TestClampMaxTokens(t *testing.T) {
	tests := []struct {
		name      string
		prompt    int
		requested int
		want      int
	}{
		{"well under budget", 100, 2048, 2048},
		{"exactly at budget", contextWindow - 2048, 2048, 2048},
		{"one over budget", contextWindow - 2047, 2048, 2047},
		{"huge prompt", contextWindow - 10, 2048, 10},
		{"prompt exceeds window", contextWindow + 500, 2048, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := clampMaxTokens(tc.prompt, tc.requested); got != tc.want {
				t.Errorf("clampMaxTokens(%d, %d) = %d, want %d", tc.prompt, tc.requested, got, tc.want)
			}
		})
	}
}

func TestCountTokens(t *testing.T) {
	if got := countTokens(""); got != 0 {
		t.Errorf("countTokens(\"\") = %d, want 0", got)
	}
	short := countTokens("hello")
	long := countTokens("hello there, this is a considerably longer sentence with many words in it")
	if short < 1 {
		t.Errorf("countTokens(hello) = %d, want >= 1", short)
	}
	if long <= short {
		t.Errorf("longer text counted %d tokens, shorter %d", long, short)
	}
}
