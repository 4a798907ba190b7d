package charts

// hue is one colored group of a categorical chart. Values align with the
// chart's categories.
type hue struct {
	label  string
	values []float64
}

// categorical is a long table pivoted to categories on the x axis and one
// series per hue, both in order of first appearance
type categorical struct {
	categories []string
	hues       []hue
}

func pivot(n int, x func(i int) string, hueOf func(i int) string, y func(i int) float64) categorical {
	var c categorical
	catIdx := map[string]int{}
	hueIdx := map[string]int{}

	for i := 0; i < n; i++ {
		if _, ok := catIdx[x(i)]; !ok {
			catIdx[x(i)] = len(c.categories)
			c.categories = append(c.categories, x(i))
		}
		if _, ok := hueIdx[hueOf(i)]; !ok {
			hueIdx[hueOf(i)] = len(c.hues)
			c.hues = append(c.hues, hue{label: hueOf(i)})
		}
	}
	for h := range c.hues {
		c.hues[h].values = make([]float64, len(c.categories))
	}
	for i := 0; i < n; i++ {
		c.hues[hueIdx[hueOf(i)]].values[catIdx[x(i)]] += y(i)
	}
	return c
}
