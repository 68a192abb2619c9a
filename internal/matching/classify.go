package matching

import (
	"strings"

	"vessel-match-service/internal/domain"
)

// classify returns the name of the first group with a keyword that appears as
// whole words in name, or "" when nothing matches. Groups are tried in order so
// the result is stable when keywords overlap.
func classify(groups []KeywordGroup, name string) string {
	padded := " " + domain.NormalizeName(name) + " "
	if strings.TrimSpace(padded) == "" {
		return ""
	}
	for _, g := range groups {
		for _, kw := range g.Keywords {
			k := domain.NormalizeName(kw)
			if k == "" {
				continue
			}
			if strings.Contains(padded, " "+k+" ") {
				return g.Name
			}
		}
	}
	return ""
}

// Region returns the trade region a port name falls in, or "" if unclassified.
func (c Config) Region(port string) string {
	return classify(c.Regions, port)
}

// Family returns the commodity family of a cargo description, or "".
func (c Config) Family(cargo string) string {
	return classify(c.Families, cargo)
}
