// Package label converts between the open string label vocabulary used by the
// canonical contact model and the closed integer enumerations used by contact
// store backends.
package label

// Label pairs a vocabulary tag with optional free-text. Custom is meaningful
// only when Tag is the vocabulary's custom sentinel; conversions ignore it
// otherwise.
type Label[T ~string] struct {
	Tag    T      `json:"label"`
	Custom string `json:"customLabel,omitempty"`
}

// Custom builds a custom label with the given free text.
func Custom[T ~string](sentinel T, text string) Label[T] {
	return Label[T]{Tag: sentinel, Custom: text}
}

// Codec maps one property kind's vocabulary onto a store enumeration.
//
// The forward map (store tag -> T) is authoritative; the reverse map is
// derived from it. Decoding an unknown store tag yields the default tag so
// that newer store versions never cause a failure. Encoding a T that has no
// store tag falls back to the custom sentinel with string(T) as the custom
// text, so every vocabulary value has some valid encoding and
// Encode(Decode(x)) round-trips for any input.
type Codec[T ~string] struct {
	forward  map[int]T
	reverse  map[T]int
	sentinel int
	custom   T
	fallback T
}

// NewCodec builds a codec from the forward map, the store's custom sentinel
// tag, the vocabulary's custom tag, and the default decode fallback.
func NewCodec[T ~string](forward map[int]T, sentinel int, custom, fallback T) *Codec[T] {
	reverse := make(map[T]int, len(forward))
	for tag, value := range forward {
		reverse[value] = tag
	}
	return &Codec[T]{
		forward:  forward,
		reverse:  reverse,
		sentinel: sentinel,
		custom:   custom,
		fallback: fallback,
	}
}

// Decode converts a store tag and its custom text into a Label.
func (c *Codec[T]) Decode(storeTag int, customText string) Label[T] {
	if storeTag == c.sentinel {
		return Label[T]{Tag: c.custom, Custom: customText}
	}
	if value, ok := c.forward[storeTag]; ok {
		return Label[T]{Tag: value}
	}
	return Label[T]{Tag: c.fallback}
}

// Encode converts a Label into a store tag plus custom text.
func (c *Codec[T]) Encode(l Label[T]) (int, string) {
	if l.Tag == c.custom {
		return c.sentinel, l.Custom
	}
	if tag, ok := c.reverse[l.Tag]; ok {
		return tag, ""
	}
	return c.sentinel, string(l.Tag)
}

// Sentinel returns the store's custom sentinel tag.
func (c *Codec[T]) Sentinel() int { return c.sentinel }

// CustomTag returns the vocabulary's custom tag.
func (c *Codec[T]) CustomTag() T { return c.custom }

// Known returns every vocabulary value present in the forward map, plus the
// custom tag. Order is unspecified.
func (c *Codec[T]) Known() []T {
	values := make([]T, 0, len(c.forward)+1)
	for _, value := range c.forward {
		values = append(values, value)
	}
	return append(values, c.custom)
}

// StoreTags returns every store tag in the forward map plus the sentinel.
// Order is unspecified.
func (c *Codec[T]) StoreTags() []int {
	tags := make([]int, 0, len(c.forward)+1)
	for tag := range c.forward {
		tags = append(tags, tag)
	}
	return append(tags, c.sentinel)
}
