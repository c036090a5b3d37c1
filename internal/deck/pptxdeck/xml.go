// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptxdeck

import "encoding/xml"

// r:id and r:embed attributes live in the officeDocument relationships
// namespace; the struct tags below spell it out because encoding/xml has no
// prefix aliasing.

// presentationXML is ppt/presentation.xml: the ordered slide list and the
// slide size in EMU.
type presentationXML struct {
	XMLName  xml.Name `xml:"presentation"`
	SldIdLst struct {
		Ids []sldIdXML `xml:"sldId"`
	} `xml:"sldIdLst"`
	SldSz struct {
		CX int64 `xml:"cx,attr"`
		CY int64 `xml:"cy,attr"`
	} `xml:"sldSz"`
}

type sldIdXML struct {
	ID  string `xml:"id,attr"`
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

// relationshipsXML is a _rels/*.rels part.
type relationshipsXML struct {
	XMLName xml.Name           `xml:"Relationships"`
	Rels    []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// slideXML is ppt/slides/slideN.xml.
type slideXML struct {
	XMLName xml.Name `xml:"sld"`
	CSld    struct {
		SpTree spTreeXML `xml:"spTree"`
	} `xml:"cSld"`
}

// spTreeXML is the slide's shape tree. Unmarshal collects each kind
// separately; reading order is restored later by sorting on shape offsets.
type spTreeXML struct {
	Shapes     []shapeXML        `xml:"sp"`
	Pics       []picXML          `xml:"pic"`
	Frames     []graphicFrameXML `xml:"graphicFrame"`
	Connectors []cxnSpXML        `xml:"cxnSp"`
}

type shapeXML struct {
	NvSpPr struct {
		NvPr struct {
			Ph *phXML `xml:"ph"`
		} `xml:"nvPr"`
	} `xml:"nvSpPr"`
	SpPr   spPrXML    `xml:"spPr"`
	TxBody *txBodyXML `xml:"txBody"`
}

// phXML marks a placeholder shape; type distinguishes titles, bodies, and
// slide-number boxes.
type phXML struct {
	Type string `xml:"type,attr"`
	Idx  string `xml:"idx,attr"`
}

type spPrXML struct {
	Xfrm     xfrmXML `xml:"xfrm"`
	PrstGeom *struct {
		Prst string `xml:"prst,attr"`
	} `xml:"prstGeom"`
	CustGeom *struct{} `xml:"custGeom"`
}

type xfrmXML struct {
	Off struct {
		X int64 `xml:"x,attr"`
		Y int64 `xml:"y,attr"`
	} `xml:"off"`
}

type txBodyXML struct {
	Paras []paraXML `xml:"p"`
}

type paraXML struct {
	PPr *struct {
		Lvl int `xml:"lvl,attr"`
	} `xml:"pPr"`
	Runs []runXML `xml:"r"`
}

type runXML struct {
	RPr  *rPrXML `xml:"rPr"`
	Text string  `xml:"t"`
}

// rPrXML carries run properties: sz is hundredths of a point, b and i are
// OOXML booleans ("1"/"0" or "true"/"false").
type rPrXML struct {
	Sz    int    `xml:"sz,attr"`
	B     string `xml:"b,attr"`
	I     string `xml:"i,attr"`
	Latin *struct {
		Typeface string `xml:"typeface,attr"`
	} `xml:"latin"`
}

func (r *rPrXML) bold() bool   { return r != nil && xmlBool(r.B) }
func (r *rPrXML) italic() bool { return r != nil && xmlBool(r.I) }

func xmlBool(s string) bool { return s == "1" || s == "true" }

type picXML struct {
	BlipFill struct {
		Blip struct {
			Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
		} `xml:"blip"`
	} `xml:"blipFill"`
	SpPr spPrXML `xml:"spPr"`
}

type graphicFrameXML struct {
	Xfrm    xfrmXML `xml:"xfrm"`
	Graphic struct {
		GraphicData struct {
			Tbl *tblXML `xml:"tbl"`
		} `xml:"graphicData"`
	} `xml:"graphic"`
}

type tblXML struct {
	Rows []struct {
		Cells []struct {
			TxBody *txBodyXML `xml:"txBody"`
		} `xml:"tc"`
	} `xml:"tr"`
}

// cxnSpXML is a connector shape; connectors are always vector drawings.
type cxnSpXML struct {
	SpPr spPrXML `xml:"spPr"`
}
