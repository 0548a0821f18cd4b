package model

// DefaultFallbackColor is used for countries that have no entry in the color file.
const DefaultFallbackColor = "#9E9E9E"

// ColorAssignment maps one ISO-3 country code to a display color.
type ColorAssignment struct {
	CountryCode string
	Color       string
}

// ColorLookup is the immutable country code -> color table.
type ColorLookup struct {
	colors map[string]string
	order  []string
}

// NewColorLookup builds a lookup from assignments. Later duplicates win.
func NewColorLookup(assignments []ColorAssignment) ColorLookup {
	c := ColorLookup{colors: make(map[string]string, len(assignments))}
	for _, a := range assignments {
		if _, seen := c.colors[a.CountryCode]; !seen {
			c.order = append(c.order, a.CountryCode)
		}
		c.colors[a.CountryCode] = a.Color
	}
	return c
}

// Lookup returns the color for code and whether it was found.
func (c ColorLookup) Lookup(code string) (string, bool) {
	color, ok := c.colors[code]
	return color, ok
}

// ColorFor returns the color for code, or fallback when the code is unknown.
func (c ColorLookup) ColorFor(code, fallback string) string {
	if color, ok := c.colors[code]; ok {
		return color
	}
	if fallback == "" {
		return DefaultFallbackColor
	}
	return fallback
}

// Len returns the number of assignments.
func (c ColorLookup) Len() int {
	return len(c.colors)
}

// Assignments returns the assignments in file order.
func (c ColorLookup) Assignments() []ColorAssignment {
	out := make([]ColorAssignment, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, ColorAssignment{CountryCode: code, Color: c.colors[code]})
	}
	return out
}
