package extractor

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnemet/pptxtext/internal/pptx"
	"github.com/gnemet/pptxtext/internal/pptx/pptxtest"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		slides []string
		want   string
	}{
		{
			name:   "zero slides",
			slides: nil,
			want:   "",
		},
		{
			name:   "no text-bearing shapes",
			slides: []string{pptxtest.Shapes(pptxtest.Picture(2), pptxtest.Connector(3), pptxtest.Table(4, "cell"))},
			want:   "",
		},
		{
			name:   "single title",
			slides: []string{pptxtest.Title(2, "Hello")},
			want:   "Hello",
		},
		{
			name:   "two slides",
			slides: []string{pptxtest.TextBox(2, "Slide1"), pptxtest.TextBox(2, "Slide2")},
			want:   "Slide1\nSlide2",
		},
		{
			name: "empty text kept",
			slides: []string{pptxtest.Shapes(
				pptxtest.TextBox(2, "a"),
				pptxtest.EmptyShape(3),
				pptxtest.TextBox(4, "b"),
			)},
			want: "a\n\nb",
		},
		{
			name: "shape order within slide",
			slides: []string{pptxtest.Shapes(
				pptxtest.TextBox(5, "third"),
				pptxtest.Picture(6),
				pptxtest.Title(2, "first"),
				pptxtest.Group(7, pptxtest.TextBox(8, "skipped")),
				pptxtest.Placeholder(3, "multi", "line"),
			)},
			want: "third\nfirst\nmulti\nline",
		},
		{
			name:   "no trimming",
			slides: []string{pptxtest.TextBox(2, "  spaced  ")},
			want:   "  spaced  ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(pptxtest.Write(t, tt.slides...))
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextRunsCountsTextBearingShapes(t *testing.T) {
	path := pptxtest.Write(t,
		pptxtest.Shapes(pptxtest.Title(2, "A"), pptxtest.Picture(3), pptxtest.EmptyShape(4)),
		pptxtest.Shapes(pptxtest.Connector(2)),
		pptxtest.Shapes(pptxtest.TextBox(2, "B"), pptxtest.TextBox(3, "C")),
	)
	prs, err := pptx.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer prs.Close()

	runs := TextRuns(prs)
	want := []string{"A", "", "B", "C"}
	if len(runs) != len(want) {
		t.Fatalf("TextRuns() = %q, want %q", runs, want)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Errorf("runs[%d] = %q, want %q", i, runs[i], want[i])
		}
	}

	text := Join(runs)
	if n := len(strings.Split(text, "\n")); n != len(want) {
		t.Errorf("Expected %d segments, got %d", len(want), n)
	}
}

func TestExtractDeterministic(t *testing.T) {
	path := pptxtest.Write(t, pptxtest.Title(2, "Same"), pptxtest.TextBox(2, "every", "time"))
	first, err := Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("Outputs differ: %q vs %q", first, second)
	}
}

func TestExtractReader(t *testing.T) {
	data := pptxtest.Bytes(t, pptxtest.TextBox(2, "Slide1"), pptxtest.TextBox(2, "Slide2"))
	got, err := ExtractReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	if got != "Slide1\nSlide2" {
		t.Errorf("ExtractReader() = %q", got)
	}
}

func TestExtractMissingFile(t *testing.T) {
	if _, err := Extract(filepath.Join(t.TempDir(), "missing.pptx")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestMarshal(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"", `{"text": ""}`},
		{"Hello", `{"text": "Hello"}`},
		{"Slide1\nSlide2", `{"text": "Slide1\nSlide2"}`},
		{"a < b & c", `{"text": "a < b & c"}`},
		{"say \"hi\"\tnow", `{"text": "say \"hi\"\tnow"}`},
		{"line\vbreak", `{"text": "line\u000bbreak"}`},
		{"Árvíztűrő", `{"text": "\u00c1rv\u00edzt\u0171r\u0151"}`},
		{"café", `{"text": "caf\u00e9"}`},
		{"ship 🚀", `{"text": "ship \ud83d\ude80"}`},
		{"del\x7f", `{"text": "del\u007f"}`},
		{"sep\u2028", `{"text": "sep\u2028"}`},
	}

	for _, tt := range tests {
		got, err := Marshal(tt.text)
		if err != nil {
			t.Fatalf("Marshal(%q) failed: %v", tt.text, err)
		}
		if string(got) != tt.want {
			t.Errorf("Marshal(%q) = %s, want %s", tt.text, got, tt.want)
		}

		var r Result
		if err := json.Unmarshal(got, &r); err != nil {
			t.Fatalf("Output is not valid JSON: %v", err)
		}
		if r.Text != tt.text {
			t.Errorf("Decoded %q, want %q", r.Text, tt.text)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, "Hello"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\"text\": \"Hello\"}\n" {
		t.Errorf("WriteJSON wrote %q", buf.String())
	}
}
