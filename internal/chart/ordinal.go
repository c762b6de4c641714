package chart

// Tableau10 is the ten-color categorical palette used by every chart on the site
var Tableau10 = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

// Ordinal assigns palette colors to keys in the order the keys were first seen.
// It is immutable after construction, so one instance can be shared by
// concurrent renders and gives every key the same color each time.
type Ordinal struct {
	palette []string
	index   map[string]int
	size    int
}

// NewOrdinal creates an ordinal scale over domain, cycling through palette.
// Duplicate keys keep their first position.
func NewOrdinal(palette []string, domain ...string) *Ordinal {
	if len(palette) == 0 {
		palette = Tableau10
	}
	o := &Ordinal{palette: palette, index: make(map[string]int, len(domain))}
	for _, key := range domain {
		if _, ok := o.index[key]; ok {
			continue
		}
		o.index[key] = o.size
		o.size++
	}
	return o
}

// Color returns the color of key. Keys outside the domain share the color
// that the next domain entry would receive.
func (o *Ordinal) Color(key string) string {
	if i, ok := o.index[key]; ok {
		return o.palette[i%len(o.palette)]
	}
	return o.palette[o.size%len(o.palette)]
}

// At returns the color of the i-th domain position
func (o *Ordinal) At(i int) string {
	if i < 0 {
		i = -i
	}
	return o.palette[i%len(o.palette)]
}
