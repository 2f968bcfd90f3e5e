package config

import (
	"atlasref/lib/configutil"
)

// Load reads the configuration document at path (merging `<name>.local.<ext>`
// on top of it) and fills in the defaults.
func Load(path string) (Config, error) {
	doc, err := configutil.ReadConfig[Document](path)
	if err != nil {
		return Config{}, err
	}
	return doc.Data.WithDefaults(), nil
}
