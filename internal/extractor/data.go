package extractor

// Attributes that carry an outbound reference, in lookup order.
// Names are compared after the tokenizer lower-cases them.
const (
	attrHref = "href"
	attrSrc  = "src"
)

// startTag is the part of a start tag the extractor looks at.
// Values are copied out of the tokenizer buffer.
type startTag struct {
	name  string
	attrs map[string]string
}

func (s startTag) reference() (string, bool) {
	if ref, ok := s.attrs[attrHref]; ok {
		return ref, true
	}
	ref, ok := s.attrs[attrSrc]
	return ref, ok
}
