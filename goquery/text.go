package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// noiseSelector matches elements whose content is never page text.
const noiseSelector = "script, style, noscript, template, link, meta, form, input, button, select, textarea, iframe, embed, object, audio, video, canvas, svg"

// minAltLength is the alt text length an image needs to be kept as a placeholder.
const minAltLength = 3

var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Dd: true, atom.Details: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true, atom.Footer: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true,
	atom.Ol: true, atom.P: true, atom.Pre: true, atom.Section: true, atom.Summary: true,
	atom.Table: true, atom.Td: true, atom.Th: true, atom.Tr: true, atom.Ul: true,
}

type textOptions struct {
	dropImages bool
}

// TextOption configures ExtractText.
type TextOption func(*textOptions)

// WithoutImages drops images instead of rendering their alt text.
func WithoutImages() TextOption {
	return func(o *textOptions) {
		o.dropImages = true
	}
}

// ExtractText returns the readable text of sel. Scripts, styles, forms and
// embedded media are dropped, images become "[Image: alt]" when the alt
// text is longer than three characters, links are replaced by their text.
// Block elements and <br> start new lines, whitespace is collapsed within
// lines and blank line runs collapse to one.
//
// ExtractText works on a clone. The document sel belongs to is never modified.
func ExtractText(sel *goquery.Selection, opts ...TextOption) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	var o textOptions
	for _, opt := range opts {
		opt(&o)
	}

	// Detached clones get a common parent so that matched roots can be
	// removed or replaced like any other element.
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range sel.Clone().Nodes {
		root.AppendChild(n)
	}
	work := goquery.NewDocumentFromNode(root)

	work.Find(noiseSelector).Remove()
	work.Find("img").Each(func(_ int, img *goquery.Selection) {
		alt := strings.Join(strings.Fields(img.AttrOr("alt", "")), " ")
		if o.dropImages || utf8.RuneCountInString(alt) <= minAltLength {
			img.Remove()
			return
		}
		img.ReplaceWithNodes(textNode(" [Image: " + alt + "] "))
	})
	work.Find("a").Each(func(_ int, a *goquery.Selection) {
		if a.Children().Length() == 0 && strings.TrimSpace(a.Text()) != "" {
			a.ReplaceWithNodes(textNode(a.Text()))
			return
		}
		a.ReplaceWithSelection(a.Contents())
	})

	var w textWriter
	w.walk(root)
	return w.String()
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// textWriter collects text line by line.
type textWriter struct {
	lines []string
	cur   strings.Builder
}

func (w *textWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.cur.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.DataAtom == atom.Br {
			w.breakLine(true)
			return
		}
	case html.DocumentNode:
	default:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		w.breakLine(false)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
	if block {
		w.breakLine(false)
	}
}

// breakLine ends the current line. Empty lines are recorded only when forced.
func (w *textWriter) breakLine(force bool) {
	line := strings.Join(strings.Fields(w.cur.String()), " ")
	w.cur.Reset()
	if line != "" || force {
		w.lines = append(w.lines, line)
	}
}

func (w *textWriter) String() string {
	w.breakLine(false)
	out := make([]string, 0, len(w.lines))
	for _, l := range w.lines {
		if l == "" && (len(out) == 0 || out[len(out)-1] == "") {
			continue
		}
		out = append(out, l)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
