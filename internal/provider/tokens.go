package provider

import "unicode"

// estimateTokens approximates token usage for vendors that omit usage data.
// CJK characters tokenize close to one token each; other text averages
// about four characters per token. The estimate covers the full prompt plus
// the completion and is never negative.
func estimateTokens(messages []ChatMessage, completion string) int {
	var cjk, other int
	count := func(s string) {
		for _, r := range s {
			if unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) {
				cjk++
			} else if !unicode.IsSpace(r) {
				other++
			}
		}
	}
	for _, m := range messages {
		count(m.Content)
	}
	count(completion)

	return cjk + other/4
}
