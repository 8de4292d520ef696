// Package pptx reads PowerPoint (.pptx) packages into an ordered, read-only
// model of slides and shapes.
package pptx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrNotPresentation is returned when the package's main part is not a
	// PowerPoint presentation.
	ErrNotPresentation = errors.New("file is not a PowerPoint presentation")

	// ErrMissingPart is returned when a required or referenced part is absent.
	ErrMissingPart = errors.New("missing package part")
)

// Presentation is an opened .pptx package.
type Presentation struct {
	closer   io.Closer
	mainPart string
	slides   []*Slide
}

// Slide is one slide of a Presentation, in sldIdLst order.
type Slide struct {
	number   int
	partName string
	shapes   []Shape
}

// Number is the 1-based position of the slide in the presentation.
func (s *Slide) Number() int { return s.number }

// PartName is the package part holding the slide, e.g. ppt/slides/slide1.xml.
func (s *Slide) PartName() string { return s.partName }

// Shapes returns the top-level shapes of the slide in document order.
func (s *Slide) Shapes() []Shape { return s.shapes }

// Open opens a PPTX file for reading. The caller must Close it.
func Open(filename string) (*Presentation, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening package: %w", err)
	}

	prs, err := load(&zr.Reader)
	if err != nil {
		zr.Close()
		return nil, err
	}
	prs.closer = zr
	return prs, nil
}

// NewReader reads a PPTX package from r, which is size bytes long.
func NewReader(r io.ReaderAt, size int64) (*Presentation, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening package: %w", err)
	}
	return load(zr)
}

// Close releases the underlying file, if any.
func (p *Presentation) Close() error {
	if p.closer != nil {
		err := p.closer.Close()
		p.closer = nil
		return err
	}
	return nil
}

// Slides returns the slides in presentation order.
func (p *Presentation) Slides() []*Slide { return p.slides }

// MainPart is the name of the presentation part, usually ppt/presentation.xml.
func (p *Presentation) MainPart() string { return p.mainPart }

func load(zr *zip.Reader) (*Presentation, error) {
	pkg, err := newPackage(zr)
	if err != nil {
		return nil, err
	}

	mainPart, err := findMainPart(pkg)
	if err != nil {
		return nil, err
	}

	if ct := pkg.contentType(mainPart); ct != ctPresentationMain && ct != ctPresentationMacroMain {
		return nil, fmt.Errorf("%w: content type is %q", ErrNotPresentation, ct)
	}

	var pres presentationXML
	if err := pkg.decodePart(mainPart, &pres); err != nil {
		return nil, err
	}

	rels, err := pkg.relationships(mainPart)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]relationshipXML, len(rels))
	for _, rel := range rels {
		byID[rel.ID] = rel
	}

	prs := &Presentation{mainPart: mainPart, slides: []*Slide{}}
	if pres.SlideIdList == nil {
		return prs, nil
	}

	for i, id := range pres.SlideIdList.SlideId {
		rel, ok := byID[id.RID]
		if !ok || !strings.HasSuffix(rel.Type, relTypeSlide) {
			return nil, fmt.Errorf("slide %d: relationship %q: %w", i+1, id.RID, ErrMissingPart)
		}

		partName := resolveTarget(mainPart, rel.Target)
		shapes, err := parseSlide(pkg, partName)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", i+1, err)
		}

		prs.slides = append(prs.slides, &Slide{
			number:   i + 1,
			partName: partName,
			shapes:   shapes,
		})
	}

	return prs, nil
}

// findMainPart follows the package officeDocument relationship.
func findMainPart(pkg *opcPackage) (string, error) {
	rels, err := pkg.relationships("")
	if err != nil {
		return "", err
	}
	for _, rel := range rels {
		if strings.HasSuffix(rel.Type, relTypeOfficeDocument) && rel.TargetMode != "External" {
			return resolveTarget("", rel.Target), nil
		}
	}
	return "", fmt.Errorf("%w: no officeDocument relationship", ErrNotPresentation)
}

// parseSlide decodes the direct children of p:cSld/p:spTree in order.
func parseSlide(pkg *opcPackage, partName string) ([]Shape, error) {
	rc, err := pkg.openPart(partName)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	shapes, err := parseShapeTree(newDecoder(rc))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", partName, err)
	}
	return shapes, nil
}

func parseShapeTree(dec *xml.Decoder) ([]Shape, error) {
	shapes := []Shape{}
	inTree := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if !inTree {
				inTree = el.Name.Local == "spTree"
				continue
			}
			shape, err := decodeShape(dec, &el)
			if err != nil {
				return nil, err
			}
			if shape != nil {
				shapes = append(shapes, shape)
			}

		case xml.EndElement:
			if inTree && el.Name.Local == "spTree" {
				return shapes, nil
			}
		}
	}

	return shapes, nil
}

// decodeShape consumes one spTree child. Elements that are not shapes
// (nvGrpSpPr, grpSpPr, extLst, mc:AlternateContent) yield nil.
func decodeShape(dec *xml.Decoder, el *xml.StartElement) (Shape, error) {
	switch el.Name.Local {
	case "sp":
		var x spXML
		if err := dec.DecodeElement(&x, el); err != nil {
			return nil, err
		}
		return newAutoShape(&x), nil

	case "pic":
		var x picXML
		if err := dec.DecodeElement(&x, el); err != nil {
			return nil, err
		}
		return &Picture{baseShape{x.NvPicPr.CNvPr.ID, x.NvPicPr.CNvPr.Name}}, nil

	case "graphicFrame":
		var x graphicFrameXML
		if err := dec.DecodeElement(&x, el); err != nil {
			return nil, err
		}
		return &GraphicFrame{
			baseShape: baseShape{x.NvGraphicFramePr.CNvPr.ID, x.NvGraphicFramePr.CNvPr.Name},
			uri:       x.Graphic.GraphicData.URI,
		}, nil

	case "grpSp":
		var x grpSpXML
		if err := dec.DecodeElement(&x, el); err != nil {
			return nil, err
		}
		return &GroupShape{baseShape{x.NvGrpSpPr.CNvPr.ID, x.NvGrpSpPr.CNvPr.Name}}, nil

	case "cxnSp":
		var x cxnSpXML
		if err := dec.DecodeElement(&x, el); err != nil {
			return nil, err
		}
		return &Connector{baseShape{x.NvCxnSpPr.CNvPr.ID, x.NvCxnSpPr.CNvPr.Name}}, nil

	case "contentPart":
		var x contentPartXML
		if err := dec.DecodeElement(&x, el); err != nil {
			return nil, err
		}
		return &ContentPart{baseShape{x.NvContentPartPr.CNvPr.ID, x.NvContentPartPr.CNvPr.Name}}, nil
	}

	return nil, dec.Skip()
}
