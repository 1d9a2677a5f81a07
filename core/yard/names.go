package yard

import "regexp"

var nonAlnum = regexp.MustCompile(`[^0-9a-zA-Z]+`)

// Normalize replaces every run of non-alphanumeric characters with "_".
func Normalize(name string) string {
	return nonAlnum.ReplaceAllString(name, "_")
}

// Aliases maps raw yard part names to the track names used by the plan.
// Keys and values are normalized on construction.
type Aliases map[string]string

// NewAliases normalizes a raw alias map.
func NewAliases(raw map[string]string) Aliases {
	a := make(Aliases, len(raw))
	for k, v := range raw {
		a[Normalize(k)] = Normalize(v)
	}
	return a
}

// Resolve normalizes name and applies the alias map.
func (a Aliases) Resolve(name string) string {
	n := Normalize(name)
	if alias, ok := a[n]; ok {
		return alias
	}
	return n
}
