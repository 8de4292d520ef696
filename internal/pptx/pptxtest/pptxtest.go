// Package pptxtest builds small .pptx packages for tests.
package pptxtest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

const contentTypesHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>
`

const rootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>
</Relationships>`

// Parts returns the part map of a presentation with one slide per entry of
// spTrees. Each entry is the XML placed inside p:spTree after the group
// properties. Tests may edit the map before calling WriteParts.
func Parts(spTrees ...string) map[string]string {
	parts := make(map[string]string)

	var ct strings.Builder
	ct.WriteString(contentTypesHeader)

	var sldIDs, presRels strings.Builder
	for i, tree := range spTrees {
		n := i + 1
		fmt.Fprintf(&ct, `  <Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>
`, n)
		fmt.Fprintf(&sldIDs, `    <p:sldId id="%d" r:id="rId%d"/>
`, 255+n, n)
		fmt.Fprintf(&presRels, `  <Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>
`, n, n)
		parts[fmt.Sprintf("ppt/slides/slide%d.xml", n)] = Slide(tree)
	}
	ct.WriteString(`</Types>`)

	parts["[Content_Types].xml"] = ct.String()
	parts["_rels/.rels"] = rootRels
	parts["ppt/presentation.xml"] = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <p:sldIdLst>
` + sldIDs.String() + `  </p:sldIdLst>
  <p:sldSz cx="9144000" cy="6858000"/>
</p:presentation>`
	parts["ppt/_rels/presentation.xml.rels"] = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
` + presRels.String() + `</Relationships>`

	return parts
}

// Bytes returns a zipped presentation with one slide per spTree.
func Bytes(t testing.TB, spTrees ...string) []byte {
	t.Helper()
	return Zip(t, Parts(spTrees...))
}

// Write stores a presentation in the test's temp dir and returns its path.
func Write(t testing.TB, spTrees ...string) string {
	t.Helper()
	return WriteParts(t, Parts(spTrees...))
}

// WriteParts zips parts into a file in the test's temp dir.
func WriteParts(t testing.TB, parts map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, Zip(t, parts), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// Zip archives parts in name order.
func Zip(t testing.TB, parts map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to create %s in zip: %v", name, err)
		}
		if _, err := w.Write([]byte(parts[name])); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

// Slide wraps shape XML into a complete slide part.
func Slide(shapes string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <p:cSld>
    <p:spTree>
      <p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>
      <p:grpSpPr/>
` + shapes + `
    </p:spTree>
  </p:cSld>
</p:sld>`
}

// Shapes concatenates shape snippets.
func Shapes(shapes ...string) string {
	return strings.Join(shapes, "\n")
}

// TextBox is a non-placeholder p:sp with one single-run paragraph per entry.
// An empty entry produces an empty paragraph.
func TextBox(id int, paragraphs ...string) string {
	return sp(id, fmt.Sprintf("TextBox %d", id), "", Body(paragraphs...))
}

// Title is a title placeholder with a single paragraph.
func Title(id int, text string) string {
	return sp(id, fmt.Sprintf("Title %d", id), `<p:ph type="title"/>`, Body(text))
}

// Placeholder is a body placeholder (no explicit type) with one paragraph per entry.
func Placeholder(id int, paragraphs ...string) string {
	return sp(id, fmt.Sprintf("Content Placeholder %d", id), `<p:ph idx="1"/>`, Body(paragraphs...))
}

// ShapeWithBody is a p:sp whose txBody holds the given raw paragraph XML.
func ShapeWithBody(id int, rawParagraphs string) string {
	return sp(id, fmt.Sprintf("Shape %d", id), "", `<p:txBody><a:bodyPr/><a:lstStyle/>`+rawParagraphs+`</p:txBody>`)
}

// EmptyShape is a p:sp without a txBody.
func EmptyShape(id int) string {
	return sp(id, fmt.Sprintf("Rectangle %d", id), "", "")
}

// Body renders a txBody with one single-run paragraph per entry.
func Body(paragraphs ...string) string {
	var sb strings.Builder
	sb.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)
	for _, p := range paragraphs {
		if p == "" {
			sb.WriteString(`<a:p><a:endParaRPr lang="en-US"/></a:p>`)
			continue
		}
		sb.WriteString(`<a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>`)
		sb.WriteString(escape(p))
		sb.WriteString(`</a:t></a:r></a:p>`)
	}
	sb.WriteString(`</p:txBody>`)
	return sb.String()
}

// Picture is a p:pic element.
func Picture(id int) string {
	return fmt.Sprintf(`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Picture %d"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`+
		`<p:blipFill><a:blip r:embed="rId9"/></p:blipFill><p:spPr/></p:pic>`, id, id)
}

// Connector is a p:cxnSp element.
func Connector(id int) string {
	return fmt.Sprintf(`<p:cxnSp><p:nvCxnSpPr><p:cNvPr id="%d" name="Connector %d"/><p:cNvCxnSpPr/><p:nvPr/></p:nvCxnSpPr><p:spPr/></p:cxnSp>`, id, id)
}

// Table is a graphic frame holding a one-cell table with the given text.
func Table(id int, cell string) string {
	return fmt.Sprintf(`<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Table %d"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`+
		`<p:xfrm/><a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table">`+
		`<a:tbl><a:tblGrid><a:gridCol w="100"/></a:tblGrid><a:tr h="10"><a:tc><a:txBody><a:bodyPr/><a:p><a:r><a:t>%s</a:t></a:r></a:p></a:txBody></a:tc></a:tr></a:tbl>`+
		`</a:graphicData></a:graphic></p:graphicFrame>`, id, id, escape(cell))
}

// Group is a p:grpSp holding the given member shapes.
func Group(id int, members ...string) string {
	return fmt.Sprintf(`<p:grpSp><p:nvGrpSpPr><p:cNvPr id="%d" name="Group %d"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>%s</p:grpSp>`,
		id, id, strings.Join(members, ""))
}

func sp(id int, name, ph, body string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr/><p:nvPr>%s</p:nvPr></p:nvSpPr><p:spPr/>%s</p:sp>`,
		id, escape(name), ph, body)
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
