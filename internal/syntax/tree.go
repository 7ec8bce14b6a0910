// Package syntax holds the reduced Python syntax tree used for structural
// feature extraction.
package syntax

// Kind is the closed set of node kinds the extractor inspects.
type Kind uint8

const (
	KindOther Kind = iota
	KindFor
	KindWhile
	KindIf
	KindFunctionDef
	KindAssign
	KindBinaryOp
	KindReturn
	KindCall
	KindTry
	KindHandler
)

func (k Kind) String() string {
	switch k {
	case KindFor:
		return "for"
	case KindWhile:
		return "while"
	case KindIf:
		return "if"
	case KindFunctionDef:
		return "function_def"
	case KindAssign:
		return "assign"
	case KindBinaryOp:
		return "binary_op"
	case KindReturn:
		return "return"
	case KindCall:
		return "call"
	case KindTry:
		return "try"
	case KindHandler:
		return "handler"
	default:
		return "other"
	}
}

// IsLoop reports whether k is a for or while loop.
func (k Kind) IsLoop() bool {
	return k == KindFor || k == KindWhile
}

// Node is one element of the tree. Name is the function name for
// KindFunctionDef and the bare callee identifier for KindCall (empty for
// attribute or computed callees). Body is the function body and is also one of
// Children.
type Node struct {
	Kind     Kind
	Name     string
	Children []*Node
	Body     *Node
}

// Tree is built once per request and never mutated.
type Tree struct {
	Root *Node
}

// Walk visits every node under root in pre-order. Returning false from fn skips
// the node's children. An explicit stack keeps deep nesting off the goroutine
// stack.
func Walk(root *Node, fn func(*Node) bool) {
	if root == nil {
		return
	}
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			if c := n.Children[i]; c != nil {
				stack = append(stack, c)
			}
		}
	}
}

// MaxNesting returns the largest number of nodes matching pred on any
// root-to-node path.
func MaxNesting(root *Node, pred func(*Node) bool) int {
	if root == nil {
		return 0
	}
	type frame struct {
		node  *Node
		depth int
	}
	best := 0
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		d := f.depth
		if pred(f.node) {
			d++
		}
		if d > best {
			best = d
		}
		for _, c := range f.node.Children {
			if c != nil {
				stack = append(stack, frame{c, d})
			}
		}
	}
	return best
}
