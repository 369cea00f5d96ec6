// Package pdfwriter renders redacted copies of PDF documents.
//
// The renderer copies every page of the source document into a fresh file and
// attaches opaque black square annotations over the redacted regions. Page
// content streams are carried over untouched, so page order, sizes and
// resources survive the rewrite.
package pdfwriter

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
	"seehuhn.de/go/pdf/pdfcopy"

	"github.com/custodia-labs/blackout/internal/core/domain"
	"github.com/custodia-labs/blackout/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Renderer = (*Renderer)(nil)

// defaultPageHeight is used when a page carries no usable MediaBox.
// 792pt is the height of US Letter, the PDF default.
const defaultPageHeight = 792.0

// Renderer implements driven.Renderer on top of seehuhn.de/go/pdf.
type Renderer struct{}

// NewRenderer creates a new PDF renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// PageCount parses the source document and returns its number of pages.
func (r *Renderer) PageCount(ctx context.Context, source io.ReadSeeker) (int, error) {
	doc, err := pdf.NewReader(source, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrSourceDocument, err)
	}
	defer doc.Close()

	n, err := pagetree.NumPages(doc)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrSourceDocument, err)
	}
	return n, nil
}

// Render produces a redacted copy of the source document.
//
// Every page is copied in order. Pages with redactions get one square
// annotation per box, appended after any annotations the page already had.
// Pages without redactions are copied as they are, in particular no empty
// Annots array is introduced.
func (r *Renderer) Render(ctx context.Context, source io.ReadSeeker, redactions []*domain.Redaction) ([]byte, error) {
	doc, err := pdf.NewReader(source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceDocument, err)
	}
	defer doc.Close()

	numPages, err := pagetree.NumPages(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceDocument, err)
	}

	// group by 1-based page number
	byPage := make(map[int][]*domain.Redaction)
	for _, red := range redactions {
		byPage[red.Page] = append(byPage[red.Page], red)
	}

	metaIn := doc.GetMeta()

	buf := &bytes.Buffer{}
	out, err := pdf.NewWriter(buf, metaIn.Version, nil)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}

	rm := pdf.NewResourceManager(out)
	pageTreeOut := pagetree.NewWriter(out)
	copier := pdfcopy.NewCopier(out, doc)

	for pageNo := 0; pageNo < numPages; pageNo++ {
		refIn, pageIn, err := pagetree.GetPage(doc, pageNo)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", domain.ErrSourceDocument, pageNo+1, err)
		}

		marks := byPage[pageNo+1]

		var newAnnots pdf.Array
		if len(marks) > 0 {
			pageHeight, err := mediaBoxHeight(doc, pageIn)
			if err != nil {
				return nil, fmt.Errorf("%w: page %d: %v", domain.ErrSourceDocument, pageNo+1, err)
			}

			// carry over the annotations the page already has
			annotsIn, err := pdf.GetArray(doc, pageIn["Annots"])
			if err != nil {
				return nil, fmt.Errorf("%w: page %d: %v", domain.ErrSourceDocument, pageNo+1, err)
			}
			if len(annotsIn) > 0 {
				newAnnots, err = copier.CopyArray(annotsIn)
				if err != nil {
					return nil, fmt.Errorf("copy annotations of page %d: %w", pageNo+1, err)
				}
			}

			for _, red := range marks {
				for i, box := range red.Boxes {
					annot := squareAnnotation(box.ToPDFSpace(pageHeight), red.ID, i)
					annotRef := out.Alloc()
					if err := out.Put(annotRef, annot); err != nil {
						return nil, fmt.Errorf("write annotation: %w", err)
					}
					newAnnots = append(newAnnots, annotRef)
				}
			}
		}

		// the annotation array is rebuilt above, so keep CopyDict away from it
		delete(pageIn, "Annots")

		pageOut, err := copier.CopyDict(pageIn)
		if err != nil {
			return nil, fmt.Errorf("copy page %d: %w", pageNo+1, err)
		}
		if len(newAnnots) > 0 {
			pageOut["Annots"] = newAnnots
		}

		refOut := out.Alloc()
		if refIn != 0 {
			copier.Redirect(refIn, refOut)
		}
		if err := pageTreeOut.AppendPageRef(refOut, pageOut); err != nil {
			return nil, fmt.Errorf("append page %d: %w", pageNo+1, err)
		}
	}

	treeRef, err := pageTreeOut.Close()
	if err != nil {
		return nil, fmt.Errorf("close page tree: %w", err)
	}
	if err := rm.Close(); err != nil {
		return nil, fmt.Errorf("close resource manager: %w", err)
	}

	metaOut := out.GetMeta()
	metaOut.Catalog.Pages = treeRef
	metaOut.Info = metaIn.Info

	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("close output: %w", err)
	}

	return buf.Bytes(), nil
}

// mediaBoxHeight returns the page height in PDF units. Pages without a
// usable MediaBox fall back to US Letter.
func mediaBoxHeight(doc pdf.Getter, page pdf.Dict) (float64, error) {
	rect, err := pdf.GetRectangle(doc, page["MediaBox"])
	if err != nil {
		return 0, err
	}
	if rect == nil || rect.URy <= rect.LLy {
		return defaultPageHeight, nil
	}
	return rect.URy - rect.LLy, nil
}

// annotation flag bits, PDF 32000-1:2008 table 165
const (
	annotFlagPrint  = 1 << 2
	annotFlagLocked = 1 << 7
)

// squareAnnotation builds an opaque black square annotation covering the
// given box, which must already be in PDF coordinates. The border and the
// interior color are both black and the border width is zero, so the box
// renders as one solid rectangle.
func squareAnnotation(box domain.Box, redactionID string, n int) pdf.Dict {
	rect := box.PDFRect()
	return pdf.Dict{
		"Type":    pdf.Name("Annot"),
		"Subtype": pdf.Name("Square"),
		"Rect": pdf.Array{
			pdf.Number(rect[0]),
			pdf.Number(rect[1]),
			pdf.Number(rect[2]),
			pdf.Number(rect[3]),
		},
		"C":  pdf.Array{pdf.Number(0), pdf.Number(0), pdf.Number(0)},
		"IC": pdf.Array{pdf.Number(0), pdf.Number(0), pdf.Number(0)},
		"BS": pdf.Dict{"W": pdf.Integer(0)},
		"F":  pdf.Integer(annotFlagPrint | annotFlagLocked),
		"NM": pdf.String(fmt.Sprintf("redaction-%s-%d", redactionID, n)),
	}
}
