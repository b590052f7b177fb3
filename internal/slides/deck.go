// Package slides turns free-form text into a structured slide deck,
// either through an LLM provider or a local heuristic split.
package slides

import (
	"encoding/json"
	"errors"
	"regexp"
)

// Slide is one slide of a structured deck.
type Slide struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
	Notes   string   `json:"notes"`
}

// Deck is the structured output of a structuring pass.
type Deck struct {
	Title  string  `json:"title"`
	Slides []Slide `json:"slides"`
}

// StripNotes clears speaker notes from every slide.
func (d *Deck) StripNotes() {
	for i := range d.Slides {
		d.Slides[i].Notes = ""
	}
}

var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// decodeDeck parses a model response into a Deck. Models sometimes
// wrap the JSON in commentary, so a failed strict parse falls back to
// the outermost brace block.
func decodeDeck(raw string) (*Deck, error) {
	var deck Deck
	if err := json.Unmarshal([]byte(raw), &deck); err == nil {
		return &deck, nil
	}

	block := jsonBlockRe.FindString(raw)
	if block == "" {
		return nil, errors.New("response contains no JSON object")
	}
	if err := json.Unmarshal([]byte(block), &deck); err != nil {
		return nil, err
	}
	return &deck, nil
}
