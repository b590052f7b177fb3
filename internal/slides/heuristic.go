package slides

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	maxBulletsPerSlide = 8
	maxFallbackBullets = 6
	maxSlides          = 20
)

// heuristicSplit structures text without an LLM. Markdown H1/H2
// headings become slide boundaries; list items and paragraph lines
// become bullets. Text without headings falls back to one "Section N"
// slide per paragraph.
func heuristicSplit(input string) *Deck {
	src := []byte(strings.TrimSpace(input))
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	var slides []Slide
	var title string
	var bullets []string

	flush := func() {
		if title == "" && len(bullets) == 0 {
			return
		}
		slideTitle := title
		if slideTitle == "" {
			slideTitle = "Slide"
		}
		if len(bullets) > maxBulletsPerSlide {
			bullets = bullets[:maxBulletsPerSlide]
		}
		slides = append(slides, Slide{Title: slideTitle, Bullets: bullets})
		title, bullets = "", nil
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level <= 2 {
				flush()
				title = string(node.Text(src))
				continue
			}
			bullets = append(bullets, string(node.Text(src)))
		case *ast.List:
			for li := node.FirstChild(); li != nil; li = li.NextSibling() {
				if line := strings.TrimSpace(string(li.Text(src))); line != "" {
					bullets = append(bullets, line)
				}
			}
		default:
			for _, line := range strings.Split(string(n.Text(src)), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					bullets = append(bullets, line)
				}
			}
		}
	}
	flush()

	if len(slides) == 0 {
		slides = paragraphFallback(string(src))
	}
	if len(slides) > maxSlides {
		slides = slides[:maxSlides]
	}
	return &Deck{Slides: slides}
}

var fallbackSplitRe = regexp.MustCompile(`[•\-\n]`)

// paragraphFallback chunks plain text into one slide per paragraph.
func paragraphFallback(input string) []Slide {
	var slides []Slide
	for _, para := range strings.Split(input, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		var bullets []string
		for _, piece := range fallbackSplitRe.Split(para, -1) {
			if piece = strings.TrimSpace(piece); piece != "" {
				bullets = append(bullets, piece)
			}
		}
		if len(bullets) > maxFallbackBullets {
			bullets = bullets[:maxFallbackBullets]
		}
		slides = append(slides, Slide{
			Title:   fmt.Sprintf("Section %d", len(slides)+1),
			Bullets: bullets,
		})
	}
	return slides
}
