package report

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Heading is one entry of a document outline
type Heading struct {
	Level int
	Text  string
	ID    string
}

func parse(md []byte) ast.Node {
	// parsers are single use
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	return p.Parse(md)
}

// HTML renders report markdown as a standalone HTML page. Image references stay
// relative, so the page must sit next to the markdown file.
func HTML(md []byte) []byte {
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.CompletePage,
		Title: Title,
	})
	return markdown.Render(parse(md), renderer)
}

// Outline lists the headings of a markdown document in order
func Outline(md []byte) []Heading {
	var headings []Heading
	ast.WalkFunc(parse(md), func(node ast.Node, entering bool) ast.WalkStatus {
		h, ok := node.(*ast.Heading)
		if !ok || !entering {
			return ast.GoToNext
		}
		headings = append(headings, Heading{Level: h.Level, Text: plainText(h), ID: h.HeadingID})
		return ast.SkipChildren
	})
	return headings
}

func plainText(node ast.Node) string {
	var b strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch leaf := n.(type) {
		case *ast.Text:
			b.Write(leaf.Literal)
		case *ast.Code:
			b.Write(leaf.Literal)
		}
		return ast.GoToNext
	})
	return b.String()
}

// WriteHTML renders the document and writes the page to path
func (d *Document) WriteHTML(path string) error {
	return WriteBytes(path, HTML(d.Bytes()))
}
