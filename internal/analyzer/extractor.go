package analyzer

import (
	"fmt"

	"complexify/internal/analyzer/detectors"
	"complexify/internal/models"
	"complexify/internal/syntax"
)

// Detector fills part of the structural feature record from a parsed tree.
type Detector interface {
	Name() string
	Detect(tree *syntax.Tree, features *models.StructuralFeatures)
}

// Extractor computes structural features. It holds no per-request state.
type Extractor struct {
	detectors []Detector
}

func NewExtractor(countExceptionHandlers bool) *Extractor {
	return &Extractor{
		detectors: []Detector{
			detectors.NewComplexityDetector(countExceptionHandlers),
			detectors.NewNestedLoopDetector(),
			detectors.NewRecursionDetector(),
		},
	}
}

// Extract never fails: unparseable source yields all-zero counters.
func (e *Extractor) Extract(source string) models.StructuralFeatures {
	features, _ := e.Inspect(source)
	return features
}

// Inspect is Extract plus the reason the counters were zeroed, if any. The
// returned features are valid even when err is non-nil.
func (e *Extractor) Inspect(source string) (features models.StructuralFeatures, err error) {
	defer func() {
		if r := recover(); r != nil {
			features = models.StructuralFeatures{}
			err = fmt.Errorf("structural extraction aborted: %v", r)
		}
	}()

	tree, err := syntax.Parse([]byte(source))
	if err != nil {
		return models.StructuralFeatures{}, err
	}
	for _, d := range e.detectors {
		d.Detect(tree, &features)
	}
	return features, nil
}

// DetectorNames returns the names of all active detectors
func (e *Extractor) DetectorNames() []string {
	names := make([]string, len(e.detectors))
	for i, d := range e.detectors {
		names[i] = d.Name()
	}
	return names
}
