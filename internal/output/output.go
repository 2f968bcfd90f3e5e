package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	CardsFile    = "cards"
	MapsFile     = "maps"
	TemplateFile = "maps_extra_template"
)

// Writer writes data files into a single directory.
type Writer struct {
	dir string
}

func NewWriter(dir string) Writer {
	return Writer{dir: dir}
}

func (w Writer) Path(name string) string {
	return filepath.Join(w.dir, name+".json")
}

// Encode renders the value the way the data files are committed: indented
// with 4 spaces and without escaping html characters.
func Encode(value any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetIndent("", "    ")
	encoder.SetEscapeHTML(false)
	err := encoder.Encode(value)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Write encodes the value into <dir>/<name>.json, creating the directory if
// it does not exist yet.
func (w Writer) Write(name string, value any) (string, error) {
	contents, err := Encode(value)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}
	err = os.MkdirAll(w.dir, 0755)
	if err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := w.Path(name)
	err = os.WriteFile(path, contents, 0644)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
