package extractor

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"mime"
	"net/url"
	"strings"
	"time"

	"github.com/rohmanhakim/site-mirror/internal/metadata"
	"github.com/rohmanhakim/site-mirror/pkg/failure"
	"github.com/rohmanhakim/site-mirror/pkg/urlutil"
	"golang.org/x/net/html"
)

/*
Responsibilities
- Tokenize markup as a stream of tags
- Report every start-tag href (else src) resolved against the base address
- Report parse diagnostics on the metadata side channel

Extraction Rules
- Start tags and self-closing tags are inspected; end tags and text are not
- href wins over src when a tag carries both
- A reference that cannot be resolved is yielded as an error;
  extraction carries on with the next tag
- No diagnostic stops extraction; it ends only where the tokenizer ends

The extractor never fetches, never filters by scope and never deduplicates.
*/

type LinkExtractor struct {
	metadataSink metadata.MetadataSink
}

func NewLinkExtractor(
	metadataSink metadata.MetadataSink,
) LinkExtractor {
	return LinkExtractor{
		metadataSink: metadataSink,
	}
}

// Extract lazily yields the absolute references found in r.
// Each pair carries either a reference or an *ExtractionError, never both.
// The sequence is single-use: r is consumed while iterating.
func (l *LinkExtractor) Extract(
	base url.URL,
	r io.Reader,
) iter.Seq2[url.URL, failure.ClassifiedError] {
	return func(yield func(url.URL, failure.ClassifiedError) bool) {
		tokenizer := html.NewTokenizer(r)
		for {
			switch tokenizer.Next() {
			case html.ErrorToken:
				if err := tokenizer.Err(); !errors.Is(err, io.EOF) {
					l.diagnose(metadata.DiagnosticFatal, base, fmt.Sprintf("tokenizer stopped: %v", err))
				}
				return
			case html.StartTagToken, html.SelfClosingTagToken:
				tag := readStartTag(tokenizer)
				l.inspect(base, tag)

				ref, ok := tag.reference()
				if !ok {
					continue
				}
				resolved, err := l.resolve(base, ref)
				if err != nil {
					if !yield(url.URL{}, err) {
						return
					}
					continue
				}
				if !yield(resolved, nil) {
					return
				}
			}
		}
	}
}

func (l *LinkExtractor) resolve(base url.URL, ref string) (url.URL, failure.ClassifiedError) {
	resolved, err := urlutil.Resolve(base, ref)
	if err == nil {
		return resolved, nil
	}

	var urlErr *url.Error
	message := err.Error()
	if errors.As(err, &urlErr) {
		message = urlErr.Err.Error()
	}
	extractionErr := &ExtractionError{
		Message:   message,
		Cause:     ErrCauseMalformedReference,
		Reference: ref,
		Base:      base.String(),
	}
	l.metadataSink.RecordError(
		time.Now(),
		"extractor",
		"LinkExtractor.Extract",
		mapExtractionErrorToMetadataCause(extractionErr),
		extractionErr.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, base.String()),
			metadata.NewAttr(metadata.AttrReference, ref),
		},
	)
	return url.URL{}, extractionErr
}

// inspect raises warnings for markup this extractor knowingly does not honour.
func (l *LinkExtractor) inspect(base url.URL, tag startTag) {
	switch tag.name {
	case "base":
		if href, ok := tag.attrs[attrHref]; ok {
			l.diagnose(metadata.DiagnosticWarning, base,
				fmt.Sprintf("<base href=%q> ignored; references resolve against the document address", href))
		}
	case "meta":
		if charset := declaredCharset(tag); charset != "" && !isUTF8(charset) {
			l.diagnose(metadata.DiagnosticWarning, base,
				fmt.Sprintf("document declares charset %q; bytes are mirrored and tokenized without decoding", charset))
		}
	}
}

func (l *LinkExtractor) diagnose(level metadata.DiagnosticLevel, base url.URL, details string) {
	l.metadataSink.RecordDiagnostic(level, base.String(), details)
}

func readStartTag(tokenizer *html.Tokenizer) startTag {
	name, hasAttr := tokenizer.TagName()
	tag := startTag{
		name:  string(name),
		attrs: make(map[string]string),
	}
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = tokenizer.TagAttr()
		// first occurrence wins, as in an HTML parser
		if _, dup := tag.attrs[string(key)]; !dup {
			tag.attrs[string(key)] = string(val)
		}
	}
	return tag
}

// declaredCharset reads <meta charset> or the charset parameter
// of <meta http-equiv="Content-Type" content="...">.
func declaredCharset(tag startTag) string {
	if charset, ok := tag.attrs["charset"]; ok {
		return strings.TrimSpace(charset)
	}
	if !strings.EqualFold(tag.attrs["http-equiv"], "content-type") {
		return ""
	}
	_, params, err := mime.ParseMediaType(tag.attrs["content"])
	if err != nil {
		return ""
	}
	return params["charset"]
}

func isUTF8(charset string) bool {
	switch strings.ToLower(charset) {
	case "utf-8", "utf8":
		return true
	default:
		return false
	}
}
