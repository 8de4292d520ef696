package pptx

import "encoding/xml"

const (
	relTypeOfficeDocument = "/officeDocument"
	relTypeSlide          = "/slide"

	ctPresentationMain      = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctPresentationMacroMain = "application/vnd.ms-powerpoint.presentation.macroEnabled.main+xml"

	graphicDataTable = "http://schemas.openxmlformats.org/drawingml/2006/table"
	graphicDataChart = "http://schemas.openxmlformats.org/drawingml/2006/chart"
)

// contentTypesXML represents [Content_Types].xml.
type contentTypesXML struct {
	XMLName  xml.Name        `xml:"Types"`
	Default  []ctDefaultXML  `xml:"Default"`
	Override []ctOverrideXML `xml:"Override"`
}

type ctDefaultXML struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverrideXML struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// relationshipsXML represents .rels files.
type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// presentationXML represents ppt/presentation.xml. Only the slide list matters here.
type presentationXML struct {
	XMLName     xml.Name        `xml:"presentation"`
	SlideIdList *slideIdListXML `xml:"sldIdLst"`
}

type slideIdListXML struct {
	SlideId []slideIdXML `xml:"sldId"`
}

type slideIdXML struct {
	ID  string `xml:"id,attr"`
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type cNvPrXML struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

// spXML is a p:sp element: text boxes, titles, placeholders and autoshapes.
type spXML struct {
	NvSpPr nvSpPrXML  `xml:"nvSpPr"`
	TxBody *txBodyXML `xml:"txBody"`
}

type nvSpPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
	NvPr  nvPrXML  `xml:"nvPr"`
}

type nvPrXML struct {
	Ph *phXML `xml:"ph"`
}

type phXML struct {
	Type string `xml:"type,attr"`
	Idx  string `xml:"idx,attr"`
}

type txBodyXML struct {
	P []paragraphXML `xml:"p"`
}

// paragraphXML keeps every child of a:p in document order so runs, fields
// and line breaks interleave correctly.
type paragraphXML struct {
	Content []paragraphChildXML `xml:",any"`
}

type paragraphChildXML struct {
	XMLName xml.Name
	T       string `xml:"t"`
}

type picXML struct {
	NvPicPr struct {
		CNvPr cNvPrXML `xml:"cNvPr"`
	} `xml:"nvPicPr"`
}

type graphicFrameXML struct {
	NvGraphicFramePr struct {
		CNvPr cNvPrXML `xml:"cNvPr"`
	} `xml:"nvGraphicFramePr"`
	Graphic struct {
		GraphicData struct {
			URI string `xml:"uri,attr"`
		} `xml:"graphicData"`
	} `xml:"graphic"`
}

type grpSpXML struct {
	NvGrpSpPr struct {
		CNvPr cNvPrXML `xml:"cNvPr"`
	} `xml:"nvGrpSpPr"`
}

type cxnSpXML struct {
	NvCxnSpPr struct {
		CNvPr cNvPrXML `xml:"cNvPr"`
	} `xml:"nvCxnSpPr"`
}

type contentPartXML struct {
	NvContentPartPr struct {
		CNvPr cNvPrXML `xml:"cNvPr"`
	} `xml:"nvContentPartPr"`
}
