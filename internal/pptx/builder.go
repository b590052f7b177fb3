// Package pptx assembles a .pptx deck from an uploaded template and a
// structured slide deck. The template is treated as an OOXML package:
// its theme, masters and layouts are carried over untouched, and new
// slide parts are appended and wired into the package manifests.
//
// No OOXML library is used because none exists in the ecosystem for
// writing presentations; the package works directly on the zip
// container and the three manifests that reference slides.
package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/slidecraft/deckgen/internal/slides"
)

const (
	slideContentType = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	notesContentType = "application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"

	// .potx templates declare a template main part; the output must be
	// an openable presentation.
	templateMainType     = "application/vnd.openxmlformats-officedocument.presentationml.template.main+xml"
	presentationMainType = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"

	slideRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	notesRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
)

var (
	slidePartRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
	sldIDRe     = regexp.MustCompile(`<p:sldId id="(\d+)"`)
	rIDRe       = regexp.MustCompile(`Id="rId(\d+)"`)
	layoutRe    = regexp.MustCompile(`^ppt/slideLayouts/slideLayout(\d+)\.xml$`)
)

// pkg is the unpacked OOXML container: part name → content, with the
// original order kept for stable output.
type pkg struct {
	names []string
	parts map[string][]byte
}

func (p *pkg) get(name string) ([]byte, bool) {
	data, ok := p.parts[name]
	return data, ok
}

func (p *pkg) put(name string, data []byte) {
	if _, ok := p.parts[name]; !ok {
		p.names = append(p.names, name)
	}
	p.parts[name] = data
}

// Build renders the deck onto the template and returns the repacked
// .pptx bytes. A deck title adds a leading title slide; every deck
// slide becomes a title+bullets slide. Slides with notes get a notes
// part when the template carries a notes master; otherwise notes are
// dropped, as there is nothing to anchor them to.
func Build(templateData []byte, deck *slides.Deck) ([]byte, error) {
	p, err := unpack(templateData)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}

	presXML, ok := p.get("ppt/presentation.xml")
	if !ok {
		return nil, fmt.Errorf("template has no presentation part")
	}
	relsXML, ok := p.get("ppt/_rels/presentation.xml.rels")
	if !ok {
		return nil, fmt.Errorf("template has no presentation relationships")
	}
	ctXML, ok := p.get("[Content_Types].xml")
	if !ok {
		return nil, fmt.Errorf("template has no content types part")
	}

	layout := pickLayout(p)
	if layout == "" {
		return nil, fmt.Errorf("template has no slide layouts")
	}
	_, hasNotesMaster := p.get("ppt/notesMasters/notesMaster1.xml")

	slideNum := maxMatch(slidePartRe, p.names) + 1
	sldID := maxUint(sldIDRe.FindAllStringSubmatch(string(presXML), -1), 255) + 1
	rID := maxUint(rIDRe.FindAllStringSubmatch(string(relsXML), -1), 0) + 1

	var sldEntries, relEntries, ctEntries []string

	addSlide := func(body string, notes string) {
		name := fmt.Sprintf("ppt/slides/slide%d.xml", slideNum)
		p.put(name, []byte(body))
		ctEntries = append(ctEntries, fmt.Sprintf(`<Override PartName="/%s" ContentType="%s"/>`, name, slideContentType))

		slideRels := []string{fmt.Sprintf(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/%s"/>`, layout)}
		if notes != "" && hasNotesMaster {
			notesName := fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", slideNum)
			p.put(notesName, []byte(notesXML(notes)))
			p.put(fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", slideNum), []byte(notesRelsXML()))
			ctEntries = append(ctEntries, fmt.Sprintf(`<Override PartName="/%s" ContentType="%s"/>`, notesName, notesContentType))
			slideRels = append(slideRels, fmt.Sprintf(`<Relationship Id="rId2" Type="%s" Target="../notesSlides/notesSlide%d.xml"/>`, notesRelType, slideNum))
		}
		p.put(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", slideNum), []byte(relsDoc(slideRels)))

		relEntries = append(relEntries, fmt.Sprintf(`<Relationship Id="rId%d" Type="%s" Target="slides/slide%d.xml"/>`, rID, slideRelType, slideNum))
		sldEntries = append(sldEntries, fmt.Sprintf(`<p:sldId id="%d" r:id="rId%d"/>`, sldID, rID))

		slideNum++
		sldID++
		rID++
	}

	if deck.Title != "" {
		addSlide(titleSlideXML(deck.Title), "")
	}
	for _, s := range deck.Slides {
		addSlide(slideXML(s.Title, s.Bullets), s.Notes)
	}

	presXML, err = appendSlideIDs(presXML, sldEntries)
	if err != nil {
		return nil, err
	}
	p.put("ppt/presentation.xml", presXML)
	p.put("ppt/_rels/presentation.xml.rels", insertBefore(relsXML, "</Relationships>", relEntries))

	ctXML = bytes.Replace(ctXML, []byte(templateMainType), []byte(presentationMainType), 1)
	p.put("[Content_Types].xml", insertBefore(ctXML, "</Types>", ctEntries))

	return pack(p)
}

func unpack(data []byte) (*pkg, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	p := &pkg{parts: make(map[string][]byte)}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		p.put(f.Name, content)
	}
	return p, nil
}

func pack(p *pkg) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range p.names {
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(p.parts[name]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pickLayout prefers layout 2 ("Title and Content" in stock masters),
// falling back to the lowest-numbered layout the template has.
func pickLayout(p *pkg) string {
	var nums []int
	for _, name := range p.names {
		if m := layoutRe.FindStringSubmatch(name); m != nil {
			n, _ := strconv.Atoi(m[1])
			nums = append(nums, n)
		}
	}
	if len(nums) == 0 {
		return ""
	}
	sort.Ints(nums)
	for _, n := range nums {
		if n == 2 {
			return "slideLayout2.xml"
		}
	}
	return fmt.Sprintf("slideLayout%d.xml", nums[0])
}

// appendSlideIDs adds the new slide references to p:sldIdLst, creating
// the list when the template (typically a fresh .potx) has none.
func appendSlideIDs(presXML []byte, entries []string) ([]byte, error) {
	if len(entries) == 0 {
		return presXML, nil
	}
	if bytes.Contains(presXML, []byte("</p:sldIdLst>")) {
		return insertBefore(presXML, "</p:sldIdLst>", entries), nil
	}
	block := "<p:sldIdLst>" + strings.Join(entries, "") + "</p:sldIdLst>"
	marker := []byte("</p:sldMasterIdLst>")
	idx := bytes.Index(presXML, marker)
	if idx < 0 {
		return nil, fmt.Errorf("presentation part has no slide master list")
	}
	insertAt := idx + len(marker)
	out := make([]byte, 0, len(presXML)+len(block))
	out = append(out, presXML[:insertAt]...)
	out = append(out, block...)
	out = append(out, presXML[insertAt:]...)
	return out, nil
}

func insertBefore(doc []byte, closeTag string, entries []string) []byte {
	if len(entries) == 0 {
		return doc
	}
	joined := strings.Join(entries, "")
	return bytes.Replace(doc, []byte(closeTag), []byte(joined+closeTag), 1)
}

func maxMatch(re *regexp.Regexp, names []string) int {
	max := 0
	for _, name := range names {
		if m := re.FindStringSubmatch(name); m != nil {
			if n, _ := strconv.Atoi(m[1]); n > max {
				max = n
			}
		}
	}
	return max
}

func maxUint(matches [][]string, floor int) int {
	max := floor
	for _, m := range matches {
		if n, _ := strconv.Atoi(m[1]); n > max {
			max = n
		}
	}
	return max
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
