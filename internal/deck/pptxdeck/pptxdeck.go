// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pptxdeck reads PowerPoint (PPTX) slide decks straight from the
// OOXML package: archive/zip plus encoding/xml, no renderer. Placeholder
// types and paragraph levels are passed to the classifier as structural
// hints, the way the format intends them.
package pptxdeck

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"image"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/pdiddy/deckdown/internal/deck"
)

func init() {
	deck.Register(".pptx", Open)
}

// defaultSizePt stands in for runs without an explicit size. OOXML inherits
// run sizes through layouts and masters; resolving that chain is not worth
// it when the classifier's fallback handles missing sizes anyway.
const defaultSizePt = 18

type document struct {
	path   string
	zr     *zip.ReadCloser
	files  map[string]*zip.File
	slides []slideRef
	height float64
}

type slideRef struct {
	part string // zip path of the slide XML
	rels string // zip path of its relationships part
}

// Open opens a PPTX package and resolves the ordered slide list from the
// presentation part and its relationships.
func Open(p string) (deck.Document, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return nil, &deck.UnreadableError{Path: p, Err: err}
	}
	d := &document{path: p, zr: zr, files: map[string]*zip.File{}}
	for _, f := range zr.File {
		d.files[f.Name] = f
	}
	if err := d.resolveSlides(); err != nil {
		zr.Close()
		return nil, &deck.UnreadableError{Path: p, Err: err}
	}
	return d, nil
}

func (d *document) resolveSlides() error {
	var pres presentationXML
	if err := d.parsePart("ppt/presentation.xml", &pres); err != nil {
		return fmt.Errorf("presentation part: %w", err)
	}
	d.height = float64(pres.SldSz.CY)

	var rels relationshipsXML
	if err := d.parsePart("ppt/_rels/presentation.xml.rels", &rels); err != nil {
		return fmt.Errorf("presentation relationships: %w", err)
	}
	targets := map[string]string{}
	for _, r := range rels.Rels {
		targets[r.ID] = r.Target
	}

	for _, id := range pres.SldIdLst.Ids {
		target, ok := targets[id.RID]
		if !ok {
			continue
		}
		part := path.Join("ppt", target)
		d.slides = append(d.slides, slideRef{
			part: part,
			rels: path.Join(path.Dir(part), "_rels", path.Base(part)+".rels"),
		})
	}
	if len(d.slides) == 0 {
		return fmt.Errorf("no slides in presentation")
	}
	return nil
}

func (d *document) parsePart(name string, v any) error {
	f, ok := d.files[name]
	if !ok {
		return fmt.Errorf("missing part %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	return xml.Unmarshal(data, v)
}

func (d *document) NumPages() int { return len(d.slides) }

func (d *document) CanRender() bool { return false }

func (d *document) Render(int, float64) (image.Image, error) {
	return nil, deck.ErrRenderUnsupported
}

func (d *document) Close() error { return d.zr.Close() }

// Page decodes the zero-based slide i.
func (d *document) Page(i int) (deck.Page, error) {
	if i < 0 || i >= len(d.slides) {
		return deck.Page{}, &deck.PageError{Path: d.path, PageIndex: i, Err: fmt.Errorf("slide out of range")}
	}
	ref := d.slides[i]

	var slide slideXML
	if err := d.parsePart(ref.part, &slide); err != nil {
		return deck.Page{}, &deck.PageError{Path: d.path, PageIndex: i, Err: err}
	}
	media := d.slideMedia(ref)

	page := deck.Page{Height: d.height}
	titleTaken := false
	for _, sh := range orderedShapes(slide.CSld.SpTree) {
		switch {
		case sh.shape != nil:
			addShape(&page, sh.shape, &titleTaken, sh.y)
		case sh.pic != nil:
			addPic(&page, sh.pic, media)
		case sh.frame != nil:
			addFrame(&page, sh.frame)
		case sh.connector:
			page.VectorObjects++
		}
	}
	return page, nil
}

// slideMedia maps relationship ids to media bytes for this slide.
func (d *document) slideMedia(ref slideRef) map[string]deck.Image {
	var rels relationshipsXML
	if err := d.parsePart(ref.rels, &rels); err != nil {
		return nil
	}
	media := map[string]deck.Image{}
	for _, r := range rels.Rels {
		if !strings.Contains(r.Type, "/image") {
			continue
		}
		target := path.Join(path.Dir(ref.part), r.Target)
		f, ok := d.files[target]
		if !ok {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil || len(data) == 0 {
			continue
		}
		ext := strings.TrimPrefix(path.Ext(target), ".")
		if ext == "jpg" {
			ext = "jpeg"
		}
		media[r.ID] = deck.Image{Data: data, Ext: ext}
	}
	return media
}

// orderedShape is one shape-tree entry with its vertical offset restored.
type orderedShape struct {
	y, x      int64
	shape     *shapeXML
	pic       *picXML
	frame     *graphicFrameXML
	connector bool
}

// orderedShapes flattens the shape tree back into reading order: top to
// bottom, then left to right, the order the XML loses by element kind.
func orderedShapes(tree spTreeXML) []orderedShape {
	var shapes []orderedShape
	for i := range tree.Shapes {
		sp := &tree.Shapes[i]
		shapes = append(shapes, orderedShape{y: sp.SpPr.Xfrm.Off.Y, x: sp.SpPr.Xfrm.Off.X, shape: sp})
	}
	for i := range tree.Pics {
		p := &tree.Pics[i]
		shapes = append(shapes, orderedShape{y: p.SpPr.Xfrm.Off.Y, x: p.SpPr.Xfrm.Off.X, pic: p})
	}
	for i := range tree.Frames {
		f := &tree.Frames[i]
		shapes = append(shapes, orderedShape{y: f.Xfrm.Off.Y, x: f.Xfrm.Off.X, frame: f})
	}
	for i := range tree.Connectors {
		c := &tree.Connectors[i]
		shapes = append(shapes, orderedShape{y: c.SpPr.Xfrm.Off.Y, x: c.SpPr.Xfrm.Off.X, connector: true})
	}
	sort.SliceStable(shapes, func(a, b int) bool {
		if shapes[a].y != shapes[b].y {
			return shapes[a].y < shapes[b].y
		}
		return shapes[a].x < shapes[b].x
	})
	return shapes
}

// addShape converts one text shape into lines. Placeholder knowledge
// becomes line hints: the deck's first title placeholder paragraph is the
// title, paragraph levels become bullet hints. Slide-number placeholders
// are dropped, and a textless geometric shape counts as a vector object.
func addShape(page *deck.Page, sp *shapeXML, titleTaken *bool, shapeY int64) {
	ph := sp.NvSpPr.NvPr.Ph
	if ph != nil && (ph.Type == "sldNum" || ph.Type == "ftr" || ph.Type == "dt") {
		return
	}
	if sp.TxBody == nil || !hasText(sp.TxBody) {
		if sp.SpPr.CustGeom != nil || (sp.SpPr.PrstGeom != nil && sp.SpPr.PrstGeom.Prst != "rect") {
			page.VectorObjects++
		}
		return
	}

	isTitle := ph != nil && (ph.Type == "title" || ph.Type == "ctrTitle")
	for pi, para := range sp.TxBody.Paras {
		line := paraLine(para)
		if len(line.Runs) == 0 {
			continue
		}
		line.Y = float64(shapeY) + float64(pi)
		switch {
		case isTitle && !*titleTaken:
			line.Hint = deck.HintTitle
			*titleTaken = true
		case para.PPr != nil && para.PPr.Lvl >= 2:
			line.Hint = deck.HintSubBullet
		case para.PPr != nil && para.PPr.Lvl == 1:
			line.Hint = deck.HintBullet
		}
		page.Lines = append(page.Lines, line)
	}
}

func paraLine(para paraXML) deck.Line {
	var line deck.Line
	for _, r := range para.Runs {
		if r.Text == "" {
			continue
		}
		run := deck.TextRun{
			Text:   r.Text,
			SizePt: defaultSizePt,
			Bold:   r.RPr.bold(),
			Italic: r.RPr.italic(),
		}
		if r.RPr != nil {
			if r.RPr.Sz > 0 {
				run.SizePt = float64(r.RPr.Sz) / 100
			}
			if r.RPr.Latin != nil {
				run.Family = r.RPr.Latin.Typeface
			}
		}
		line.Runs = append(line.Runs, run)
	}
	return line
}

func hasText(tb *txBodyXML) bool {
	for _, p := range tb.Paras {
		for _, r := range p.Runs {
			if strings.TrimSpace(r.Text) != "" {
				return true
			}
		}
	}
	return false
}

func addPic(page *deck.Page, pic *picXML, media map[string]deck.Image) {
	img, ok := media[pic.BlipFill.Blip.Embed]
	if !ok {
		return
	}
	page.Images = append(page.Images, img)
}

func addFrame(page *deck.Page, frame *graphicFrameXML) {
	tbl := frame.Graphic.GraphicData.Tbl
	if tbl == nil {
		return
	}
	rows := make([][]string, 0, len(tbl.Rows))
	for _, tr := range tbl.Rows {
		cells := make([]string, 0, len(tr.Cells))
		for _, tc := range tr.Cells {
			cells = append(cells, cellText(tc.TxBody))
		}
		rows = append(rows, cells)
	}
	if len(rows) > 0 {
		page.Tables = append(page.Tables, rows)
	}
}

func cellText(tb *txBodyXML) string {
	if tb == nil {
		return ""
	}
	var parts []string
	for _, p := range tb.Paras {
		var b strings.Builder
		for _, r := range p.Runs {
			b.WriteString(r.Text)
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
