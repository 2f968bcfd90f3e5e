package htmlutil

import (
	"bytes"
	"context"
	"net/url"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("atlasref.lib.htmlutil")

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// CleanText is the text of every node in the selection with leading and
// trailing whitespace removed.
func CleanText(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, n := range sel.Nodes {
		getTextRecursive(n, &buffer)
	}
	return strings.TrimSpace(buffer.String())
}

type Anchor struct {
	Name string
	Href string
}

// GetAnchors collects the `a` elements under the selection in document order.
func GetAnchors(ctx context.Context, sel *goquery.Selection) []Anchor {
	_, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := []Anchor{}
	for _, n := range sel.Find("a").Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}

		linkStr := href
		link, err := url.Parse(href)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
		} else {
			linkStr = link.String()
		}

		name := strings.TrimSpace(GetText(n))
		anchors = append(anchors, Anchor{
			Name: name,
			Href: linkStr,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", name),
			attribute.String("url", linkStr),
		))
	}

	return anchors
}

// AnchorNames returns the de-duplicated, sorted names of the anchors.
func AnchorNames(anchors []Anchor) []string {
	names := make([]string, 0, len(anchors))
	for _, a := range anchors {
		names = append(names, a.Name)
	}
	return SortedSet(names)
}

// SortedSet returns the distinct values sorted ascending. The result is never
// nil so it serializes as an empty list.
func SortedSet(values []string) []string {
	out := slices.Clone(values)
	if out == nil {
		out = []string{}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
