package detectors

import (
	"complexify/internal/models"
	"complexify/internal/syntax"
)

// ComplexityDetector counts node kinds and control-flow constructs in one pass
type ComplexityDetector struct {
	countExceptionHandlers bool
}

// NewComplexityDetector creates a new complexity detector. When
// countExceptionHandlers is set, try statements and except clauses also add
// to the control-flow count.
func NewComplexityDetector(countExceptionHandlers bool) *ComplexityDetector {
	return &ComplexityDetector{countExceptionHandlers: countExceptionHandlers}
}

// Name returns the detector name
func (d *ComplexityDetector) Name() string {
	return "Control Flow Detector"
}

// Detect fills the per-kind counters
func (d *ComplexityDetector) Detect(tree *syntax.Tree, features *models.StructuralFeatures) {
	syntax.Walk(tree.Root, func(n *syntax.Node) bool {
		switch n.Kind {
		case syntax.KindFor:
			features.ForLoops++
			features.ControlFlowCount++
		case syntax.KindWhile:
			features.WhileLoops++
			features.ControlFlowCount++
		case syntax.KindIf:
			features.IfStatements++
			features.ControlFlowCount++
		case syntax.KindFunctionDef:
			features.FunctionDefs++
		case syntax.KindAssign:
			features.Assignments++
		case syntax.KindBinaryOp:
			features.BinaryOps++
		case syntax.KindReturn:
			features.Returns++
		case syntax.KindTry, syntax.KindHandler:
			if d.countExceptionHandlers {
				features.ControlFlowCount++
			}
		case syntax.KindCall, syntax.KindOther:
		}
		return true
	})
}
