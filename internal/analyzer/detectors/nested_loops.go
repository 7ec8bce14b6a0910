package detectors

import (
	"complexify/internal/models"
	"complexify/internal/syntax"
)

// NestedLoopDetector records the deepest loop nesting anywhere in the tree.
// Depth is global across the file, not per function.
type NestedLoopDetector struct{}

func NewNestedLoopDetector() *NestedLoopDetector {
	return &NestedLoopDetector{}
}

func (d *NestedLoopDetector) Name() string {
	return "Nested Loop Detector"
}

func (d *NestedLoopDetector) Detect(tree *syntax.Tree, features *models.StructuralFeatures) {
	features.LoopDepth = syntax.MaxNesting(tree.Root, func(n *syntax.Node) bool {
		return n.Kind.IsLoop()
	})
}
