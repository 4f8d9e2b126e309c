package main

import (
	"log"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// contextWindow is the total token budget of the upstream models:
// prompt tokens plus max_tokens must stay at or below this.
const contextWindow = 8193

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

func tokenEncoding() *tiktoken.Tiktoken {
	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			log.Printf("[tokens] cl100k_base unavailable, falling back to estimate: %v", err)
			return
		}
		encoding = enc
	})
	return encoding
}

// countTokens counts tokens with the cl100k_base encoding, with a rough
// 4-characters-per-token estimate when the encoding cannot be loaded.
func countTokens(text string) int {
	if enc := tokenEncoding(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return (len(text) + 3) / 4
}

// clampMaxTokens shrinks a completion budget so promptTokens+result fits
// the context window. Never returns less than 1.
func clampMaxTokens(promptTokens, requested int) int {
	if promptTokens+requested <= contextWindow {
		return requested
	}
	remaining := contextWindow - promptTokens
	if remaining < 1 {
		return 1
	}
	return remaining
}
