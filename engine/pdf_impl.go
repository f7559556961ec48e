package engine

import (
	"errors"
	"fmt"
	"math"
	"os"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/annotation"
	"seehuhn.de/go/pdf/pagetree"
	"seehuhn.de/go/pdf/reader"
	"seehuhn.de/go/postscript/cid"

	"github.com/sven-vanh/lieferlisten-agent/model"
)

// ErrEncrypted is returned by Open for password-protected documents.
var ErrEncrypted = errors.New("document is encrypted")

type pdfEngine struct{}

// PDF returns the production engine backed by seehuhn.de/go/pdf.
func PDF() Engine { return pdfEngine{} }

func (pdfEngine) Open(path string) (Document, error) {
	r, err := pdf.Open(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if r.GetMeta().Trailer["Encrypt"] != nil {
		r.Close()
		return nil, fmt.Errorf("open %s: %w", path, ErrEncrypted)
	}

	n, err := pagetree.NumPages(r)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	doc := &pdfDocument{r: r, added: make(map[int][]model.Annotation)}
	for i := 0; i < n; i++ {
		ref, dict, err := pagetree.GetPage(r, i)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("open %s: page %d: %w", path, i, err)
		}
		media, err := pdf.GetRectangle(r, dict["MediaBox"])
		if err != nil || media == nil {
			// A4 when the media box is missing or damaged.
			media = &pdf.Rectangle{LLx: 0, LLy: 0, URx: 595.276, URy: 841.89}
		}
		doc.pages = append(doc.pages, &pdfPage{
			doc:   doc,
			index: i,
			ref:   ref,
			dict:  dict,
			media: media,
		})
	}
	return doc, nil
}

type pdfDocument struct {
	r     *pdf.Reader
	pages []*pdfPage

	// added holds annotations staged per page index, written on Save.
	added map[int][]model.Annotation
}

func (d *pdfDocument) NumPages() int { return len(d.pages) }

func (d *pdfDocument) Page(i int) (Page, error) {
	if i < 0 || i >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", i, len(d.pages))
	}
	return d.pages[i], nil
}

func (d *pdfDocument) Close() error { return d.r.Close() }

type pdfPage struct {
	doc   *pdfDocument
	index int
	ref   pdf.Reference
	dict  pdf.Dict
	media *pdf.Rectangle
}

func (p *pdfPage) Bounds() model.Rect {
	return model.Rect{X1: p.media.URx - p.media.LLx, Y1: p.media.URy - p.media.LLy}
}

// toModel converts a point from PDF user space (bottom-up) to model
// space (top-down, page-local origin).
func (p *pdfPage) toModel(x, y float64) model.Point {
	return model.Point{X: x - p.media.LLx, Y: p.media.URy - y}
}

func (p *pdfPage) toModelRect(r pdf.Rectangle) model.Rect {
	tl := p.toModel(r.LLx, r.URy)
	br := p.toModel(r.URx, r.LLy)
	return model.Rect{X0: tl.X, Y0: tl.Y, X1: br.X, Y1: br.Y}
}

// toPDF converts a model-space point back to PDF user space.
func (p *pdfPage) toPDF(pt model.Point) (float64, float64) {
	return pt.X + p.media.LLx, p.media.URy - pt.Y
}

func (p *pdfPage) toPDFRect(r model.Rect) pdf.Rectangle {
	llx, lly := p.toPDF(model.Point{X: r.X0, Y: r.Y1})
	urx, ury := p.toPDF(model.Point{X: r.X1, Y: r.Y0})
	return pdf.Rectangle{LLx: llx, LLy: lly, URx: urx, URy: ury}
}

// TextSpans walks the page's content stream and groups glyphs into
// positioned runs. The glyph callback reports device-space positions
// but no font metrics, so the advance and the effective font size are
// estimated from the spacing of successive glyphs on the same
// baseline.
func (p *pdfPage) TextSpans() ([]TextSpan, error) {
	rd := reader.New(pdf.NewExtractor(p.doc.r))

	var spans []TextSpan
	var cur *spanBuilder

	rd.Character = func(_ cid.CID, text string) error {
		x, y := rd.GetTextPositionDevice()
		if cur == nil || !cur.accepts(x, y) {
			if cur != nil {
				spans = append(spans, cur.span(p))
			}
			cur = &spanBuilder{text: text, x0: x, lastX: x, y: y}
			return nil
		}
		cur.add(text, x)
		return nil
	}

	if err := rd.ParsePage(p.dict, matrix.Identity); err != nil {
		return nil, fmt.Errorf("page %d: parse content: %w", p.index, err)
	}
	if cur != nil {
		spans = append(spans, cur.span(p))
	}
	return spans, nil
}

// defaultAdvance stands in for the glyph advance until a span has seen
// at least two glyphs. Roughly half an em at 10 pt.
const defaultAdvance = 5.0

type spanBuilder struct {
	text  string
	x0    float64 // left edge of the first glyph
	lastX float64 // left edge of the latest glyph
	y     float64 // baseline, PDF user space
	sum   float64 // total of the regular inter-glyph steps
	steps int
}

// advance is the mean step between consecutive glyphs of this span.
func (b *spanBuilder) advance() float64 {
	if b.steps == 0 {
		return defaultAdvance
	}
	return b.sum / float64(b.steps)
}

// fontSize estimates the effective font size. A Latin glyph advances
// about half an em, so twice the mean advance is close enough for
// baseline tolerances and span heights.
func (b *spanBuilder) fontSize() float64 {
	return 2 * b.advance()
}

// accepts reports whether a glyph at (x, y) continues this span: same
// baseline within half a font size, and no backward jump or gap wider
// than a few glyph widths.
func (b *spanBuilder) accepts(x, y float64) bool {
	if math.Abs(y-b.y) > b.fontSize()*0.5 {
		return false
	}
	step := x - b.lastX
	return step >= 0 && step <= 3*b.advance()
}

func (b *spanBuilder) add(text string, x float64) {
	step := x - b.lastX
	if b.steps > 0 && step > 1.5*b.advance() {
		// Wider than a regular step: a word gap. Keep it out of the
		// advance average so one space does not skew the estimate.
		b.text += " "
	} else {
		b.sum += step
		b.steps++
	}
	b.text += text
	b.lastX = x
}

func (b *spanBuilder) span(p *pdfPage) TextSpan {
	size := b.fontSize()
	tl := p.toModel(b.x0, b.y+size)
	br := p.toModel(b.lastX+b.advance(), b.y)
	return TextSpan{
		Text: b.text,
		BBox: model.Rect{X0: tl.X, Y0: tl.Y, X1: br.X, Y1: br.Y},
	}
}

// Annotations reads the page's /Annots array. Subtypes outside the
// supported set, and entries that fail to decode, come back as
// model.UnknownAnnotation so the extractor can report them.
func (p *pdfPage) Annotations() ([]model.Annotation, error) {
	arr, err := pdf.GetArray(p.doc.r, p.dict["Annots"])
	if err != nil {
		return nil, fmt.Errorf("page %d: read Annots: %w", p.index, err)
	}
	var out []model.Annotation
	for _, obj := range arr {
		a, err := annotation.Decode(pdf.NewExtractor(p.doc.r), nil, obj, false)
		if err != nil {
			if m := p.rawAnnotation(obj); m != nil {
				out = append(out, m)
			}
			continue
		}
		if m := p.fromPDFAnnotation(a); m != nil {
			out = append(out, m)
		}
	}
	return out, nil
}

// rawAnnotation builds a placeholder for an /Annots entry that could
// not be decoded, keeping its subtype and bounds visible downstream.
// Returns nil when the entry is not even a dictionary.
func (p *pdfPage) rawAnnotation(obj pdf.Object) model.Annotation {
	dict, err := pdf.GetDict(p.doc.r, obj)
	if err != nil || dict == nil {
		return nil
	}
	base := model.BaseAnnotation{Page: p.index}
	if rect, err := pdf.GetRectangle(p.doc.r, dict["Rect"]); err == nil && rect != nil {
		base.BBox = p.toModelRect(*rect)
	}
	subtype, err := pdf.GetName(p.doc.r, dict["Subtype"])
	if err != nil || subtype == "" {
		subtype = "malformed"
	}
	return &model.UnknownAnnotation{BaseAnnotation: base, Subtype: string(subtype)}
}

func (p *pdfPage) fromPDFAnnotation(a annotation.Annotation) model.Annotation {
	common := a.GetCommon()
	base := model.BaseAnnotation{
		Page:     p.index,
		BBox:     p.toModelRect(common.Rect),
		Contents: common.Contents,
		Name:     common.Name,
	}

	switch v := a.(type) {
	case *annotation.Text:
		base.Author = v.Markup.User
		return &model.TextAnnotation{BaseAnnotation: base, Icon: string(v.Icon)}
	case *annotation.FreeText:
		base.Author = v.Markup.User
		return &model.FreeTextAnnotation{BaseAnnotation: base}
	case *annotation.Ink:
		base.Author = v.Markup.User
		paths := make([][]model.Point, 0, len(v.InkList))
		for _, coords := range v.InkList {
			path := make([]model.Point, 0, len(coords)/2)
			for i := 0; i+1 < len(coords); i += 2 {
				path = append(path, p.toModel(coords[i], coords[i+1]))
			}
			paths = append(paths, path)
		}
		return &model.InkAnnotation{BaseAnnotation: base, Paths: paths}
	case *annotation.TextMarkup:
		base.Author = v.Markup.User
		quads := make([]model.Quad, 0, len(v.QuadPoints)/4)
		for i := 0; i+3 < len(v.QuadPoints); i += 4 {
			var q model.Quad
			for j := 0; j < 4; j++ {
				q[j] = p.toModel(v.QuadPoints[i+j].X, v.QuadPoints[i+j].Y)
			}
			quads = append(quads, q)
		}
		switch v.Type {
		case annotation.TextMarkupTypeHighlight:
			return &model.HighlightAnnotation{BaseAnnotation: base, Quads: quads}
		case annotation.TextMarkupTypeUnderline:
			return &model.UnderlineAnnotation{BaseAnnotation: base, Quads: quads}
		case annotation.TextMarkupTypeStrikeOut:
			return &model.StrikeOutAnnotation{BaseAnnotation: base, Quads: quads}
		case annotation.TextMarkupTypeSquiggly:
			return &model.SquigglyAnnotation{BaseAnnotation: base, Quads: quads}
		}
		return &model.UnknownAnnotation{BaseAnnotation: base, Subtype: string(v.Type)}
	default:
		return &model.UnknownAnnotation{BaseAnnotation: base, Subtype: string(a.AnnotationType())}
	}
}

func (p *pdfPage) AddAnnotation(a model.Annotation) error {
	if a.Kind() == model.KindUnknown {
		return fmt.Errorf("page %d: cannot add annotation of unknown kind", p.index)
	}
	p.doc.added[p.index] = append(p.doc.added[p.index], a)
	return nil
}

// toPDFAnnotation converts a model annotation back into the vendor
// annotation object for encoding.
func (p *pdfPage) toPDFAnnotation(a model.Annotation) annotation.Annotation {
	base := a.Base()
	common := annotation.Common{
		Rect:     p.toPDFRect(base.BBox),
		Contents: base.Contents,
		Name:     base.Name,
	}
	markup := annotation.Markup{User: base.Author}

	switch v := a.(type) {
	case *model.TextAnnotation:
		icon := annotation.TextIcon(v.Icon)
		if icon == "" {
			icon = annotation.TextIconNote
		}
		return &annotation.Text{Common: common, Markup: markup, Icon: icon}
	case *model.FreeTextAnnotation:
		return &annotation.FreeText{
			Common:            common,
			Markup:            markup,
			DefaultAppearance: "/Helv 12 Tf 0 g",
		}
	case *model.InkAnnotation:
		inkList := make([][]float64, 0, len(v.Paths))
		for _, path := range v.Paths {
			coords := make([]float64, 0, len(path)*2)
			for _, pt := range path {
				x, y := p.toPDF(pt)
				coords = append(coords, x, y)
			}
			inkList = append(inkList, coords)
		}
		return &annotation.Ink{Common: common, Markup: markup, InkList: inkList}
	default:
		quads := model.MarkupQuads(a)
		points := make([]vec.Vec2, 0, len(quads)*4)
		for _, q := range quads {
			for _, pt := range q {
				x, y := p.toPDF(pt)
				points = append(points, vec.Vec2{X: x, Y: y})
			}
		}
		var mt annotation.TextMarkupType
		switch a.Kind() {
		case model.KindHighlight:
			mt = annotation.TextMarkupTypeHighlight
		case model.KindUnderline:
			mt = annotation.TextMarkupTypeUnderline
		case model.KindStrikeOut:
			mt = annotation.TextMarkupTypeStrikeOut
		case model.KindSquiggly:
			mt = annotation.TextMarkupTypeSquiggly
		}
		return &annotation.TextMarkup{Common: common, Markup: markup, Type: mt, QuadPoints: points}
	}
}

// Save copies every page of the document into a new file and appends
// the staged annotations to the pages they belong to. On failure the
// partially written file is removed.
func (d *pdfDocument) Save(path string) (err error) {
	fd, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			fd.Close()
			os.Remove(path)
		}
	}()

	metaIn := d.r.GetMeta()
	out, err := pdf.NewWriter(fd, metaIn.Version, nil)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	rm := pdf.NewResourceManager(out)
	pageTree := pagetree.NewWriter(out, rm)
	copier := pdf.NewCopier(out, d.r)

	for _, page := range d.pages {
		pageIn := make(pdf.Dict, len(page.dict))
		for k, v := range page.dict {
			pageIn[k] = v
		}

		// The annotation array is rebuilt below so that new entries
		// can be appended after the copied ones.
		annotsIn, err := pdf.GetArray(d.r, pageIn["Annots"])
		if err != nil {
			annotsIn = nil
		}
		delete(pageIn, "Annots")

		pageOut, err := copier.CopyDict(pageIn)
		if err != nil {
			return fmt.Errorf("write %s: copy page %d: %w", path, page.index, err)
		}

		annotsOut, err := copier.CopyArray(annotsIn)
		if err != nil {
			return fmt.Errorf("write %s: copy annotations on page %d: %w", path, page.index, err)
		}
		for _, a := range d.added[page.index] {
			native, err := page.toPDFAnnotation(a).Encode(rm)
			if err != nil {
				return fmt.Errorf("write %s: encode %s annotation: %w", path, a.Kind(), err)
			}
			ref := out.Alloc()
			if err := out.Put(ref, native); err != nil {
				return fmt.Errorf("write %s: store %s annotation: %w", path, a.Kind(), err)
			}
			annotsOut = append(annotsOut, ref)
		}
		if len(annotsOut) > 0 {
			pageOut["Annots"] = annotsOut
		}

		refOut := out.Alloc()
		if page.ref != 0 {
			copier.Redirect(page.ref, refOut)
		}
		if err := pageTree.AppendPageDict(refOut, pageOut); err != nil {
			return fmt.Errorf("write %s: append page %d: %w", path, page.index, err)
		}
	}

	treeRef, err := pageTree.Close()
	if err != nil {
		return fmt.Errorf("write %s: close page tree: %w", path, err)
	}
	if err := rm.Close(); err != nil {
		return fmt.Errorf("write %s: close resources: %w", path, err)
	}

	metaOut := out.GetMeta()
	metaOut.Catalog.Pages = treeRef
	metaOut.Info = metaIn.Info

	if err := out.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
