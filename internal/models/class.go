package models

import "strings"

// Class defines one spectral class bucket: records whose subclass starts
// with Prefix belong to the class named Label.
type Class struct {
	Label  string `yaml:"label"`
	Prefix string `yaml:"prefix"`
}

// DefaultClasses is the A/F/G split used by the survey sampling runs.
func DefaultClasses() []Class {
	return []Class{
		{Label: "A", Prefix: "A"},
		{Label: "F", Prefix: "F"},
		{Label: "G", Prefix: "G"},
	}
}

// ClassFor returns the first class whose prefix matches the subclass.
// Records that match no class are intentionally excluded from sampling.
func ClassFor(classes []Class, subclass string) (Class, bool) {
	for _, c := range classes {
		if c.Prefix != "" && strings.HasPrefix(subclass, c.Prefix) {
			return c, true
		}
	}
	return Class{}, false
}
