package maps

// Templates creates one empty Template per map, in the same order.
func Templates(maps []Summary) []Template {
	out := make([]Template, 0, len(maps))
	for _, m := range maps {
		out = append(out, Template{Name: m.Name})
	}
	return out
}
