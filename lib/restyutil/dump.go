package restyutil

import (
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/go-resty/resty/v2"
)

const redacted = "REDACTED"

// query parameters that carry credentials
var secretParams = []string{"key", "api_key", "access_token"}

// RedactUrl replaces the value of every credential query parameter, links
// that cannot be parsed are returned unchanged.
func RedactUrl(link string) string {
	parsed, err := url.Parse(link)
	if err != nil || parsed.RawQuery == "" {
		return link
	}
	query := parsed.Query()
	changed := false
	for _, param := range secretParams {
		if query.Has(param) {
			query.Set(param, redacted)
			changed = true
		}
	}
	if !changed {
		return link
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func writeHeaders(out *strings.Builder, prefix string, headers http.Header) {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		for _, value := range headers[name] {
			fmt.Fprintf(out, "%s%s: %s\n", prefix, name, value)
		}
	}
}

// formatDump renders a finished exchange in the style of curl -v: request
// lines prefixed with ">", response lines with "<", then the body.
func formatDump(res *resty.Response) string {
	var out strings.Builder
	req := res.Request

	fmt.Fprintf(&out, "> %s %s\n", req.Method, RedactUrl(req.URL))
	if req.RawRequest != nil {
		writeHeaders(&out, "> ", req.RawRequest.Header)
	}
	out.WriteString("\n")

	fmt.Fprintf(&out, "< %d %s\n", res.StatusCode(), res.Time())
	if res.RawResponse != nil {
		location, err := res.RawResponse.Location()
		if err == nil {
			fmt.Fprintf(&out, "< redirected to %s\n", RedactUrl(location.String()))
		}
	}
	writeHeaders(&out, "< ", res.Header())
	out.WriteString("\n")

	out.Write(res.Body())
	return out.String()
}
