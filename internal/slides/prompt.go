package slides

import "fmt"

// structuringPrompt asks the model for a JSON deck description. The
// schema matches what decodeDeck expects.
func structuringPrompt(text, guidance string) string {
	goal := guidance
	if goal == "" {
		goal = "Turn this into a clear, concise presentation with a logical flow."
	}
	return fmt.Sprintf(`You are a slide architect. Read the input and produce a JSON object describing a slide deck.
The deck should reflect this guidance: %s

Output JSON schema:
{
  "title": "Optional overall deck title string",
  "slides": [
    {
      "title": "Slide title",
      "bullets": ["bullet 1", "bullet 2", "..."],
      "notes": "Optional speaker notes string"
    }
  ]
}

Keep bullets short. Prefer 4-6 bullets per slide. Create as many slides as needed,
but keep a reasonable length. If headings in the text imply sections, map them to slides.
Input starts below:
---
%s
---
`, goal, text)
}
