package dashboard

// qualitative is Plotly's default categorical palette.
var qualitative = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// palette hands out categorical colors in first-seen order, cycling when
// there are more categories than colors.
type palette struct {
	assigned map[string]string
}

func newPalette() *palette {
	return &palette{assigned: make(map[string]string)}
}

func (p *palette) colorFor(category string) string {
	if c, ok := p.assigned[category]; ok {
		return c
	}
	c := qualitative[len(p.assigned)%len(qualitative)]
	p.assigned[category] = c
	return c
}
