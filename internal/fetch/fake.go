package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"atlasref/lib/restyutil"

	"github.com/PuerkitoBio/goquery"
)

// Fake implements Client from in-memory bodies keyed by url, urls without a
// body answer with a 404 StatusError.
type Fake struct {
	Bodies    map[string]string
	Requested []string
}

func NewFake(bodies map[string]string) *Fake {
	return &Fake{Bodies: bodies}
}

func (f *Fake) body(link string) (string, error) {
	f.Requested = append(f.Requested, link)
	body, ok := f.Bodies[link]
	if !ok {
		return "", StatusError{Url: restyutil.RedactUrl(link), Status: 404}
	}
	return body, nil
}

func (f *Fake) GetJSON(ctx context.Context, link string, out any) error {
	body, err := f.body(link)
	if err != nil {
		return err
	}
	err = json.Unmarshal([]byte(body), out)
	if err != nil {
		return fmt.Errorf("decode json from %s: %w", link, err)
	}
	return nil
}

func (f *Fake) GetDocument(ctx context.Context, link string) (*goquery.Document, error) {
	body, err := f.body(link)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(body))
}
