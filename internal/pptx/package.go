package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/net/html/charset"
)

// opcPackage indexes the parts of an Open Packaging Conventions zip.
// Part names are matched case-insensitively.
type opcPackage struct {
	parts        map[string]*zip.File
	contentTypes *contentTypesXML
}

func newPackage(zr *zip.Reader) (*opcPackage, error) {
	pkg := &opcPackage{parts: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		pkg.parts[strings.ToLower(f.Name)] = f
	}

	pkg.contentTypes = &contentTypesXML{}
	if err := pkg.decodePart("[Content_Types].xml", pkg.contentTypes); err != nil {
		return nil, err
	}
	return pkg, nil
}

// openPart opens a part for streaming.
func (p *opcPackage) openPart(name string) (io.ReadCloser, error) {
	f, ok := p.parts[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingPart, name)
	}
	return f.Open()
}

func (p *opcPackage) hasPart(name string) bool {
	_, ok := p.parts[strings.ToLower(name)]
	return ok
}

// decodePart unmarshals an XML part into v.
func (p *opcPackage) decodePart(name string, v interface{}) error {
	rc, err := p.openPart(name)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := newDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// contentType resolves the content type of a part: an Override wins over
// the Default registered for the part's extension.
func (p *opcPackage) contentType(name string) string {
	partName := "/" + strings.TrimPrefix(name, "/")
	for _, o := range p.contentTypes.Override {
		if strings.EqualFold(o.PartName, partName) {
			return o.ContentType
		}
	}
	ext := strings.TrimPrefix(path.Ext(name), ".")
	for _, d := range p.contentTypes.Default {
		if strings.EqualFold(d.Extension, ext) {
			return d.ContentType
		}
	}
	return ""
}

// relationships returns the relationships whose source is the given part.
// An empty name means the package itself. A missing .rels part yields none.
func (p *opcPackage) relationships(source string) ([]relationshipXML, error) {
	relsPath := path.Join(path.Dir(source), "_rels", path.Base(source)+".rels")
	if source == "" {
		relsPath = "_rels/.rels"
	}
	if !p.hasPart(relsPath) {
		return nil, nil
	}

	var rels relationshipsXML
	if err := p.decodePart(relsPath, &rels); err != nil {
		return nil, err
	}
	return rels.Relationship, nil
}

// resolveTarget turns a relationship target into a part name relative to
// the package root.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return strings.TrimPrefix(path.Join(path.Dir(source), target), "/")
}

func newDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}
