package maps

import (
	"context"
	"fmt"
	"strings"

	"atlasref/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// panel ids that belong to the unique variant of a map
var uniqueMarkers = []string{"MapUnique", "Unique_Unique"}

// values marking a boolean attribute as set
const (
	markerYes = "o"
	markerX   = "x"
)

func isUniquePanel(panel *goquery.Selection) bool {
	id := panel.AttrOr("id", "")
	for _, marker := range uniqueMarkers {
		if strings.Contains(id, marker) {
			return true
		}
	}
	return false
}

// Panels returns the direct `div` children of the detail page's tab container.
func Panels(doc *goquery.Document) (*goquery.Selection, error) {
	container := doc.Find("div.tab-content").First()
	if container.Length() == 0 {
		return nil, ErrNoContainer
	}
	return container.ChildrenFiltered("div"), nil
}

// ResolvePanel returns the panel at offset, or the one after it when the panel
// at offset belongs to the unique variant. The returned offset is the one of
// the returned panel.
func ResolvePanel(panels *goquery.Selection, offset int) (*goquery.Selection, int, error) {
	if offset >= panels.Length() {
		return nil, offset, fmt.Errorf("%w: no panel at %d", ErrNoPanel, offset)
	}
	panel := panels.Eq(offset)
	if isUniquePanel(panel) {
		offset++
		if offset >= panels.Length() {
			return nil, offset, fmt.Errorf("%w: no panel after unique panel at %d", ErrNoPanel, offset-1)
		}
		panel = panels.Eq(offset)
	}
	return panel, offset, nil
}

// PanelRow is a labelled row of a panel's table.
type PanelRow struct {
	// Label is the lower-cased, trimmed text of the first cell.
	Label string
	Value *goquery.Selection
}

// Text is the trimmed text of the value cell.
func (r PanelRow) Text() string {
	return htmlutil.CleanText(r.Value)
}

// PanelRows reads the body rows of the panel's first table, rows with less
// than two cells carry no attribute and are left out.
func PanelRows(panel *goquery.Selection) ([]PanelRow, error) {
	body := panel.Find("table").First().Find("tbody").First()
	if body.Length() == 0 {
		return nil, ErrNoTable
	}

	var rows []PanelRow
	body.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cols := tr.Find("td")
		if cols.Length() < 2 {
			return
		}
		rows = append(rows, PanelRow{
			Label: strings.ToLower(htmlutil.CleanText(cols.Eq(0))),
			Value: cols.Eq(1),
		})
	})
	return rows, nil
}

// detailBuilder accumulates what the panels say about a map.
type detailBuilder struct {
	ctx    context.Context
	detail Detail
	cards  []string
	warn   func(msg string)
}

// rowSetter applies the value of a labelled row to the map being built.
type rowSetter func(b *detailBuilder, row PanelRow)

func flag(set func(b *detailBuilder), marker string) rowSetter {
	return func(b *detailBuilder, row PanelRow) {
		if row.Text() == marker {
			set(b)
		}
	}
}

func anchorNames(b *detailBuilder, row PanelRow) []string {
	return htmlutil.AnchorNames(htmlutil.GetAnchors(b.ctx, row.Value))
}

// layoutVocabulary is understood by the first panel, labels that are not in
// it are ignored.
var layoutVocabulary = map[string]rowSetter{
	"few obstacles": flag(func(b *detailBuilder) { b.detail.Layout.FewObstacles = true }, markerYes),
	"outdoors":      flag(func(b *detailBuilder) { b.detail.Layout.Outdoors = true }, markerYes),
	"linear":        flag(func(b *detailBuilder) { b.detail.Layout.Linear = true }, markerYes),
	"tileset": func(b *detailBuilder, row PanelRow) {
		b.detail.Layout.Tileset = row.Text()
	},
	"boss based on": func(b *detailBuilder, row PanelRow) {
		b.detail.Boss.BasedOn = row.Text()
	},
	"boss notes": func(b *detailBuilder, row PanelRow) {
		b.detail.Boss.Notes = row.Text()
	},
	"boss not in own room": flag(func(b *detailBuilder) { b.detail.Boss.Separated = true }, markerX),
}

// extrasVocabulary is understood by the panel following the layout panel.
var extrasVocabulary = map[string]rowSetter{
	"boss": func(b *detailBuilder, row PanelRow) {
		b.detail.Boss.Names = anchorNames(b, row)
	},
	"atlas linked": func(b *detailBuilder, row PanelRow) {
		b.detail.Connected = anchorNames(b, row)
	},
	"card tags": func(b *detailBuilder, row PanelRow) {
		for _, a := range htmlutil.GetAnchors(b.ctx, row.Value) {
			b.cards = append(b.cards, a.Name)
		}
	},
	"the pantheon": func(b *detailBuilder, row PanelRow) {
		anchors := htmlutil.GetAnchors(b.ctx, row.Value)
		if len(anchors) == 0 {
			b.warn("pantheon row has no link")
			return
		}
		b.detail.Pantheon = anchors[0].Name
	},
}

func (b *detailBuilder) apply(rows []PanelRow, vocabulary map[string]rowSetter) {
	for _, row := range rows {
		set, ok := vocabulary[row.Label]
		if !ok {
			continue
		}
		set(b, row)
	}
}
