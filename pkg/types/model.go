// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model for the deckdown pipeline:
// font signals, classified lines, render decisions, page records, and the
// merged output model handed to serialization.
package types

// Role is the structural classification assigned to one line of slide text.
type Role string

const (
	RoleTitle     Role = "title"
	RoleBullet    Role = "bullet"
	RoleSubBullet Role = "subbullet"
	RoleEquation  Role = "equation"
	RoleCode      Role = "code"
	RoleBody      Role = "body"
)

// FontSignal is the normalized font metadata for a contiguous run of text
// with identical family, size, and style. Immutable once derived; its lifetime
// is a single classification pass.
type FontSignal struct {
	// Family is the font family name as reported by the document producer.
	// Producers vary wildly here; "unknown" marks runs with missing metadata.
	Family string `json:"family" yaml:"family"`

	// SizePt is the font size in points.
	SizePt float64 `json:"size_pt" yaml:"size_pt"`

	// Bold and Italic are style bits derived from the family name or run
	// properties.
	Bold   bool `json:"bold" yaml:"bold"`
	Italic bool `json:"italic" yaml:"italic"`
}

// StyledSpan is a piece of line text with the signal that styles it. Spans
// survive into serialization so bold/italic/math styling is preserved.
type StyledSpan struct {
	Text   string     `json:"text" yaml:"text"`
	Signal FontSignal `json:"signal" yaml:"signal"`
}

// ClassifiedLine is one line of slide text with its assigned role. Role
// assignment is a pure function of the line's signal and its position
// relative to neighboring lines on the same page; there is no cross-page
// state. Never mutated after creation.
type ClassifiedLine struct {
	// Text is the full line text with span texts concatenated and any
	// leading bullet glyph stripped.
	Text string `json:"text" yaml:"text"`

	// Role is the structural role assigned by the classifier.
	Role Role `json:"role" yaml:"role"`

	// Signal is the line's dominant font signal (the largest span's).
	Signal FontSignal `json:"signal" yaml:"signal"`

	// Spans are the styled fragments making up the line, in reading order.
	Spans []StyledSpan `json:"spans,omitempty" yaml:"spans,omitempty"`

	// PageIndex and LineIndex locate the line within its source document.
	PageIndex int `json:"page_index" yaml:"page_index"`
	LineIndex int `json:"line_index" yaml:"line_index"`
}

// RenderMode says whether a page is rasterized wholesale.
type RenderMode string

const (
	RenderNone     RenderMode = "none"
	RenderFullPage RenderMode = "fullpage"
)

// RenderReason explains a render decision.
type RenderReason string

const (
	// ReasonNone accompanies mode none under the auto policy.
	ReasonNone RenderReason = ""

	// ReasonHasVectorGraphic marks pages with vector drawings that plain
	// text reconstruction would lose.
	ReasonHasVectorGraphic RenderReason = "has_vector_graphic"

	// ReasonHasDenseEquations marks pages where the equation-line fraction
	// crossed the density threshold.
	ReasonHasDenseEquations RenderReason = "has_dense_equations"

	// ReasonForcedByPolicy and ReasonForcedSkip mark decisions made by the
	// always/never policies (or by page-decode recovery), never by auto.
	ReasonForcedByPolicy RenderReason = "forced_by_policy"
	ReasonForcedSkip     RenderReason = "forced_skip"
)

// RenderDecision records the per-page render outcome. Produced once, immutable.
type RenderDecision struct {
	PageIndex int          `json:"page_index" yaml:"page_index"`
	Mode      RenderMode   `json:"mode" yaml:"mode"`
	Reason    RenderReason `json:"reason" yaml:"reason"`
}

// ImageBlob is an opaque raster image embedded as-is into the output.
type ImageBlob struct {
	// Data is the raw encoded image bytes (not base64).
	Data []byte `json:"-" yaml:"-"`

	// Ext is the image format extension without the dot (png, jpeg, ...).
	Ext string `json:"ext" yaml:"ext"`

	// Alt is the alternate text for the embedded image.
	Alt string `json:"alt" yaml:"alt"`
}

// Table holds a slide table's cell text, first row treated as the header.
type Table struct {
	Rows [][]string `json:"rows" yaml:"rows"`
}

// PageRecord is the fully classified, assembled representation of one source
// page, ready for merge and serialization. Every record belongs to exactly
// one source document and page; Lines preserve original on-page vertical
// order.
type PageRecord struct {
	// SourceDoc is the input path the page came from.
	SourceDoc string `json:"source_doc" yaml:"source_doc"`

	// PageIndex is the zero-based page number within the source document.
	PageIndex int `json:"page_index" yaml:"page_index"`

	// Title is the text of the first line classified as a title, or empty.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Lines are the classified text lines in on-page order.
	Lines []ClassifiedLine `json:"lines" yaml:"lines"`

	// Images are raster blobs extracted from the page, in discovery order.
	Images []ImageBlob `json:"images,omitempty" yaml:"images,omitempty"`

	// Tables are table shapes extracted from the page (presentation input).
	Tables []Table `json:"tables,omitempty" yaml:"tables,omitempty"`

	// Render is the full-page raster, present only when Decision.Mode is
	// fullpage and the backend can rasterize.
	Render *ImageBlob `json:"render,omitempty" yaml:"render,omitempty"`

	// Decision is the page's render decision.
	Decision RenderDecision `json:"decision" yaml:"decision"`
}

// TOCEntry links a table-of-contents title to its page anchor.
type TOCEntry struct {
	// Title is the page title as shown in the table of contents.
	Title string `json:"title" yaml:"title"`

	// Anchor is the unique identifier used to deep-link to the page.
	Anchor string `json:"anchor" yaml:"anchor"`

	// DocIndex and PageIndex locate the page in the merged model.
	DocIndex  int `json:"doc_index" yaml:"doc_index"`
	PageIndex int `json:"page_index" yaml:"page_index"`
}

// OutputModel is the root object handed to serialization: all page records in
// document order then page order, concatenated across input documents in
// command-line order. Constructed once by the merger, never mutated after.
type OutputModel struct {
	// Title is the document title for the output artifact.
	Title string `json:"title" yaml:"title"`

	// Pages holds every page record from every input document.
	Pages []PageRecord `json:"pages" yaml:"pages"`

	// TOC holds one entry per page, anchors pairwise unique.
	TOC []TOCEntry `json:"toc" yaml:"toc"`
}

// Warning is a user-visible, non-fatal problem encountered during conversion.
type Warning struct {
	// Doc is the input path the warning refers to.
	Doc string `json:"doc" yaml:"doc"`

	// PageIndex is the zero-based page the warning refers to, or -1 for
	// whole-document warnings.
	PageIndex int `json:"page_index" yaml:"page_index"`

	// Message describes the problem.
	Message string `json:"message" yaml:"message"`
}
