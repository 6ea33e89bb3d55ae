package engine

import (
	"fmt"

	"github.com/qualifab/qcontrol/internal/qc"
)

// generateProducts builds the day's inspection queue: 5 + 2*day products of
// uniformly random type, each carrying baseDefectCount(type) + day defects of
// uniformly random category. Duplicates are allowed. Output depends only on
// day and the engine's randomness source.
func (e *Engine) generateProducts(day int) []qc.Product {
	count := 5 + 2*day
	products := make([]qc.Product, 0, count)

	for i := 0; i < count; i++ {
		spec := qc.ProductCatalog[e.rng.Intn(len(qc.ProductCatalog))]

		defectCount := spec.BaseDefectCount + day
		defects := make([]qc.Defect, 0, defectCount)
		for j := 0; j < defectCount; j++ {
			d := qc.DefectCatalog[e.rng.Intn(len(qc.DefectCatalog))]
			defects = append(defects, qc.Defect{
				NameKey:  d.NameKey,
				Severity: d.Severity,
				Value:    d.Value,
			})
		}

		products = append(products, qc.Product{
			ID:             fmt.Sprintf("product-%d", i),
			Type:           spec.Type,
			NameKey:        spec.NameKey,
			Value:          spec.Value,
			InspectionTime: e.adjustedInspectionTime(spec.InspectionTime),
			Defects:        defects,
		})
	}
	return products
}
