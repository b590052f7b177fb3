package slides

import (
	"context"
	"strings"
)

type structureFunc func(ctx context.Context, apiKey, text, guidance string) (*Deck, error)

// providerFuncs routes a provider name to its LLM call. Swapped out in
// tests to keep them off the network.
var providerFuncs = map[string]structureFunc{
	"openai":    structureWithOpenAI,
	"anthropic": structureWithAnthropic,
	"gemini":    structureWithGemini,
}

// Structure produces a deck from text. With a known provider and a
// key it calls the LLM; without either, or when the LLM call fails
// for any reason, it falls back silently to the heuristic split, so a
// deck always comes back.
func Structure(ctx context.Context, provider, apiKey, text, guidance string) *Deck {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if apiKey != "" {
		if fn, ok := providerFuncs[provider]; ok {
			if deck, err := fn(ctx, apiKey, text, guidance); err == nil {
				return deck
			}
		}
	}
	return heuristicSplit(text)
}
