package maps

import (
	"encoding/json"
)

// Summary is an entry of the canonical map list.
type Summary struct {
	Name string `json:"name"`
	// Tier is the first tier the map appears at.
	Tier int `json:"tier"`
	// Poedb is the map's detail page.
	Poedb string `json:"poedb"`
}

// Boss is filled from the layout panel first, the names come from the extras
// panel.
type Boss struct {
	BasedOn   string   `json:"based_on,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Separated bool     `json:"separated,omitempty"`
	Names     []string `json:"names,omitempty"`
}

type Layout struct {
	Tileset      string `json:"tileset,omitempty"`
	FewObstacles bool   `json:"few_obstacles,omitempty"`
	Outdoors     bool   `json:"outdoors,omitempty"`
	Linear       bool   `json:"linear,omitempty"`
}

// Detail is a map with everything scraped about it.
type Detail struct {
	Summary
	Boss      Boss         `json:"boss"`
	Layout    Layout       `json:"layout"`
	Rating    RatingValues `json:"rating"`
	Connected []string     `json:"connected,omitempty"`
	Pantheon  string       `json:"pantheon,omitempty"`
	Wiki      string       `json:"wiki"`
	Cards     []string     `json:"cards"`
}

// Rating is a row of the curated ratings sheet.
type Rating struct {
	Name    string `json:"name"`
	Layout  string `json:"layout"`
	Density string `json:"density"`
	Boss    string `json:"boss"`
}

// RatingValues is a rating as attached to a map, an unmatched rating
// serializes as an empty object.
type RatingValues struct {
	Found   bool
	Layout  string
	Density string
	Boss    string
}

type ratingValuesJson struct {
	Layout  string `json:"layout"`
	Density string `json:"density"`
	Boss    string `json:"boss"`
}

func (r RatingValues) MarshalJSON() ([]byte, error) {
	if !r.Found {
		return []byte("{}"), nil
	}
	return json.Marshal(ratingValuesJson{
		Layout:  r.Layout,
		Density: r.Density,
		Boss:    r.Boss,
	})
}

func (r *RatingValues) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	err := json.Unmarshal(b, &fields)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		*r = RatingValues{}
		return nil
	}

	var values ratingValuesJson
	err = json.Unmarshal(b, &values)
	if err != nil {
		return err
	}
	*r = RatingValues{
		Found:   true,
		Layout:  values.Layout,
		Density: values.Density,
		Boss:    values.Boss,
	}
	return nil
}

// Template is the hand-curated extra data of a map, every leaf starts out null.
type Template struct {
	Name   string         `json:"name"`
	Layout TemplateLayout `json:"layout"`
	Boss   TemplateBoss   `json:"boss"`
}

type TemplateLayout struct {
	GoodForOpenMechanics *bool `json:"good_for_open_mechanics"`
	GoodForDeliMirror    *bool `json:"good_for_deli_mirror"`
}

type TemplateBoss struct {
	SpawnAtLoad  *bool `json:"spawn_at_load"`
	CloseToStart *bool `json:"close_to_start"`
	Phases       *int  `json:"phases"`
}
