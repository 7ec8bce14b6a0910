package detectors

import (
	"complexify/internal/models"
	"complexify/internal/syntax"
)

// RecursionDetector counts direct self-calls: calls by bare name to the
// enclosing function, summed over every function definition. Calls through
// attributes, aliases or other functions are not seen.
type RecursionDetector struct{}

func NewRecursionDetector() *RecursionDetector {
	return &RecursionDetector{}
}

func (d *RecursionDetector) Name() string {
	return "Recursion Detector"
}

func (d *RecursionDetector) Detect(tree *syntax.Tree, features *models.StructuralFeatures) {
	syntax.Walk(tree.Root, func(n *syntax.Node) bool {
		if n.Kind == syntax.KindFunctionDef && n.Name != "" {
			features.RecursionCount += countSelfCalls(n)
		}
		return true
	})
}

func countSelfCalls(fn *syntax.Node) int {
	calls := 0
	syntax.Walk(fn.Body, func(n *syntax.Node) bool {
		if n.Kind == syntax.KindCall && n.Name == fn.Name {
			calls++
		}
		return true
	})
	return calls
}
