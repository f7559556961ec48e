package extractor

import (
	"fmt"

	"github.com/sven-vanh/lieferlisten-agent/engine"
	"github.com/sven-vanh/lieferlisten-agent/model"
	"github.com/sven-vanh/lieferlisten-agent/observability"
)

// Annotations scans every page's markup and returns the annotations of
// supported kinds. Unsupported subtypes are skipped with a diagnostic.
// The result carries no order indices yet; callers assign them over
// the merged anchor and annotation sequence with
// model.AssignReadingOrder.
func Annotations(doc engine.Document, diag *observability.Collector) ([]model.Annotation, error) {
	var annots []model.Annotation
	for pageNo := 0; pageNo < doc.NumPages(); pageNo++ {
		page, err := doc.Page(pageNo)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNo, err)
		}
		found, err := page.Annotations()
		if err != nil {
			return nil, fmt.Errorf("page %d: read annotations: %w", pageNo, err)
		}
		for _, a := range found {
			if u, ok := a.(*model.UnknownAnnotation); ok {
				diag.Add(observability.Diagnostic{
					Stage:    "extract",
					Severity: observability.SeverityWarn,
					Message:  "skipping annotation of unsupported kind",
					Page:     pageNo,
					Kind:     u.Subtype,
				})
				continue
			}
			annots = append(annots, a)
		}
	}
	return annots, nil
}
