// Package extractor collects the text of every text-bearing shape of a
// presentation and renders it as the {"text": ...} JSON document.
package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/gnemet/pptxtext/internal/pptx"
)

// Result decodes a document written by Marshal. Marshal lays the bytes out
// itself, so Result is only used on the reading side.
type Result struct {
	Text string `json:"text"`
}

// Extract opens the presentation at path and returns the text of its
// text-bearing shapes joined with "\n".
func Extract(path string) (string, error) {
	prs, err := pptx.Open(path)
	if err != nil {
		return "", err
	}
	defer prs.Close()

	return Join(TextRuns(prs)), nil
}

// ExtractReader is Extract for an in-memory or already opened package.
func ExtractReader(r io.ReaderAt, size int64) (string, error) {
	prs, err := pptx.NewReader(r, size)
	if err != nil {
		return "", err
	}
	defer prs.Close()

	return Join(TextRuns(prs)), nil
}

// TextRuns returns one entry per text-bearing shape, slides outer and
// shapes inner, in document order. Empty texts are kept.
func TextRuns(prs *pptx.Presentation) []string {
	runs := []string{}
	for _, slide := range prs.Slides() {
		for _, shape := range slide.Shapes() {
			if th, ok := shape.(pptx.TextHolder); ok {
				runs = append(runs, th.Text())
			}
		}
	}
	return runs
}

// Join concatenates runs with "\n" separators.
func Join(runs []string) string {
	return strings.Join(runs, "\n")
}

// Marshal renders text as {"text": "..."}. HTML characters are not escaped;
// everything outside printable ASCII is written as \uXXXX, with surrogate
// pairs above U+FFFF.
func Marshal(text string) ([]byte, error) {
	var value bytes.Buffer
	enc := json.NewEncoder(&value)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(text); err != nil {
		return nil, fmt.Errorf("encoding text: %w", err)
	}

	out := make([]byte, 0, value.Len()+10)
	out = append(out, `{"text": `...)
	out = appendASCII(out, bytes.TrimSuffix(value.Bytes(), []byte("\n")))
	out = append(out, '}')
	return out, nil
}

// appendASCII copies an encoded JSON string, escaping DEL and all non-ASCII
// runes. The encoder has already replaced invalid UTF-8.
func appendASCII(dst, src []byte) []byte {
	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)
		src = src[size:]
		switch {
		case r < 0x7f:
			dst = append(dst, byte(r))
		case r > 0xffff:
			r1, r2 := utf16.EncodeRune(r)
			dst = fmt.Appendf(dst, `\u%04x\u%04x`, r1, r2)
		default:
			dst = fmt.Appendf(dst, `\u%04x`, r)
		}
	}
	return dst
}

// WriteJSON writes the JSON document for text followed by a newline.
func WriteJSON(w io.Writer, text string) error {
	data, err := Marshal(text)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
