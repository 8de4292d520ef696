package pptx

import "strings"

// ShapeKind tags the variant of a Shape.
type ShapeKind int

const (
	KindAutoShape ShapeKind = iota
	KindPicture
	KindGraphicFrame
	KindGroup
	KindConnector
	KindContentPart
)

func (k ShapeKind) String() string {
	switch k {
	case KindAutoShape:
		return "autoshape"
	case KindPicture:
		return "picture"
	case KindGraphicFrame:
		return "graphic-frame"
	case KindGroup:
		return "group"
	case KindConnector:
		return "connector"
	case KindContentPart:
		return "content-part"
	default:
		return "unknown"
	}
}

// Shape is one element of a slide's shape tree. The set of implementations
// is closed: AutoShape, Picture, GraphicFrame, GroupShape, Connector and
// ContentPart.
type Shape interface {
	ID() int
	Name() string
	Kind() ShapeKind
	isShape()
}

// TextHolder is implemented by shapes that carry a text frame.
// Only AutoShape implements it.
type TextHolder interface {
	Shape
	Text() string
}

type baseShape struct {
	id   int
	name string
}

func (b baseShape) ID() int { return b.id }
func (b baseShape) Name() string { return b.name }
func (baseShape) isShape() {}

// AutoShape is a p:sp element: text boxes, titles, placeholders and plain
// geometric shapes. It always has a text frame, possibly empty.
type AutoShape struct {
	baseShape
	placeholder   string
	isPlaceholder bool
	paragraphs    []string
}

func (*AutoShape) Kind() ShapeKind { return KindAutoShape }

// Text returns the paragraphs joined with "\n". Line breaks inside a
// paragraph are rendered as "\v".
func (s *AutoShape) Text() string {
	return strings.Join(s.paragraphs, "\n")
}

// Paragraphs returns the text of each paragraph in order.
func (s *AutoShape) Paragraphs() []string {
	return s.paragraphs
}

// Placeholder reports the placeholder type (title, body, ctrTitle, ...) and
// whether the shape is a placeholder at all. Placeholders without an explicit
// type report "obj".
func (s *AutoShape) Placeholder() (string, bool) {
	return s.placeholder, s.isPlaceholder
}

// IsTitle reports whether the shape is a title placeholder.
func (s *AutoShape) IsTitle() bool {
	return s.isPlaceholder && (s.placeholder == "title" || s.placeholder == "ctrTitle")
}

// Picture is a p:pic element.
type Picture struct{ baseShape }

func (*Picture) Kind() ShapeKind { return KindPicture }

// GraphicFrame is a p:graphicFrame element holding a table, chart or other
// graphic object.
type GraphicFrame struct {
	baseShape
	uri string
}

func (*GraphicFrame) Kind() ShapeKind { return KindGraphicFrame }

// GraphicDataURI identifies the kind of graphic object held by the frame.
func (g *GraphicFrame) GraphicDataURI() string { return g.uri }

func (g *GraphicFrame) HasTable() bool { return g.uri == graphicDataTable }

func (g *GraphicFrame) HasChart() bool { return g.uri == graphicDataChart }

// GroupShape is a p:grpSp element. Its members are not part of the slide's
// top-level shape sequence.
type GroupShape struct{ baseShape }

func (*GroupShape) Kind() ShapeKind { return KindGroup }

// Connector is a p:cxnSp element.
type Connector struct{ baseShape }

func (*Connector) Kind() ShapeKind { return KindConnector }

// ContentPart is a p:contentPart element (ink and other embedded content).
type ContentPart struct{ baseShape }

func (*ContentPart) Kind() ShapeKind { return KindContentPart }

func newAutoShape(x *spXML) *AutoShape {
	s := &AutoShape{
		baseShape: baseShape{id: x.NvSpPr.CNvPr.ID, name: x.NvSpPr.CNvPr.Name},
	}
	if ph := x.NvSpPr.NvPr.Ph; ph != nil {
		s.isPlaceholder = true
		s.placeholder = ph.Type
		if s.placeholder == "" {
			s.placeholder = "obj"
		}
	}
	if x.TxBody != nil {
		s.paragraphs = make([]string, 0, len(x.TxBody.P))
		for _, p := range x.TxBody.P {
			s.paragraphs = append(s.paragraphs, paragraphText(&p))
		}
	}
	return s
}

func paragraphText(p *paragraphXML) string {
	var sb strings.Builder
	for _, c := range p.Content {
		switch c.XMLName.Local {
		case "r", "fld":
			sb.WriteString(c.T)
		case "br":
			sb.WriteString("\v")
		}
	}
	return sb.String()
}
