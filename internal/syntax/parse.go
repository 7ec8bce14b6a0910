package syntax

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax is returned when the source does not parse cleanly.
var ErrSyntax = errors.New("syntax error")

// Parse builds a Tree from Python source. A fresh tree-sitter parser is used
// per call; parsers are not safe for concurrent use.
func Parse(source []byte) (*Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("%w: empty tree", ErrSyntax)
	}
	if root.HasError() {
		line := firstErrorLine(root)
		return nil, fmt.Errorf("%w near line %d", ErrSyntax, line)
	}
	if err := checkStatements(root); err != nil {
		return nil, err
	}

	return &Tree{Root: convert(root, source, "")}, nil
}

func convert(n *sitter.Node, source []byte, parentType string) *Node {
	nodeType := n.Type()
	out := &Node{Kind: classify(n, nodeType, parentType)}

	switch out.Kind {
	case KindFunctionDef:
		if name := n.ChildByFieldName("name"); name != nil {
			out.Name = name.Content(source)
		}
	case KindCall:
		if fn := n.ChildByFieldName("function"); fn != nil && fn.Type() == "identifier" {
			out.Name = fn.Content(source)
		}
	}

	var body *sitter.Node
	if out.Kind == KindFunctionDef {
		body = n.ChildByFieldName("body")
	}

	count := int(n.NamedChildCount())
	if count > 0 {
		out.Children = make([]*Node, 0, count)
	}
	for i := range count {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		converted := convert(child, source, nodeType)
		if body != nil && sameNode(child, body) {
			out.Body = converted
		}
		out.Children = append(out.Children, converted)
	}
	return out
}

func classify(n *sitter.Node, nodeType, parentType string) Kind {
	switch nodeType {
	case "for_statement":
		if isAsync(n) {
			return KindOther
		}
		return KindFor
	case "while_statement":
		return KindWhile
	case "if_statement", "elif_clause":
		return KindIf
	case "function_definition":
		if isAsync(n) {
			return KindOther
		}
		return KindFunctionDef
	case "assignment":
		// a = b = 1 nests assignments; count the statement once. Bare
		// annotations (x: int) have no right-hand side.
		if parentType == "assignment" || n.ChildByFieldName("right") == nil {
			return KindOther
		}
		return KindAssign
	case "augmented_assignment":
		return KindAssign
	case "binary_operator":
		return KindBinaryOp
	case "return_statement":
		return KindReturn
	case "call":
		return KindCall
	case "try_statement":
		return KindTry
	case "except_clause", "except_group_clause":
		return KindHandler
	default:
		return KindOther
	}
}

// isAsync reports whether a def or for carries the async keyword. Coroutines
// and async loops are not counted as functions or loops.
func isAsync(n *sitter.Node) bool {
	first := n.Child(0)
	return first != nil && first.Type() == "async"
}

// checkStatements rejects source that tree-sitter recovers from silently but
// the Python 3 compiler refuses: Python 2 print/exec statements, empty
// suites and inconsistent indentation.
func checkStatements(root *sitter.Node) error {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n.Type() {
		case "print_statement", "exec_statement":
			keyword := strings.TrimSuffix(n.Type(), "_statement")
			return fmt.Errorf("%w: %s statement near line %d", ErrSyntax, keyword, n.StartPoint().Row+1)
		case "module":
			if err := checkIndentation(n, nil); err != nil {
				return err
			}
		case "block":
			if header := n.Parent(); header != nil {
				if err := checkIndentation(n, header); err != nil {
					return err
				}
			}
		}

		for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
			if c := n.NamedChild(i); c != nil {
				stack = append(stack, c)
			}
		}
	}
	return nil
}

// checkIndentation validates the statements of a module (header == nil) or
// of a block. Module statements start at column 0; block statements start
// right of their header and share one column. Statements continuing the row
// of the previous one (a; b) are not indentation-bearing and are skipped.
func checkIndentation(n, header *sitter.Node) error {
	var (
		statements int
		column     uint32
		lastRow    uint32
	)
	for i := range int(n.NamedChildCount()) {
		child := n.NamedChild(i)
		if child == nil || child.Type() == "comment" || child.Type() == "line_continuation" {
			continue
		}
		start := child.StartPoint()
		statements++
		if statements > 1 && start.Row == lastRow {
			lastRow = child.EndPoint().Row
			continue
		}
		lastRow = child.EndPoint().Row

		switch {
		case header == nil && start.Column != 0,
			header != nil && start.Column <= header.StartPoint().Column,
			statements > 1 && start.Column != column:
			return fmt.Errorf("%w: unexpected indentation near line %d", ErrSyntax, start.Row+1)
		}
		column = start.Column
	}
	if header != nil && statements == 0 {
		return fmt.Errorf("%w: expected an indented block near line %d", ErrSyntax, header.StartPoint().Row+1)
	}
	return nil
}

func firstErrorLine(root *sitter.Node) uint32 {
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Type() == "ERROR" || n.IsMissing() {
			return n.StartPoint().Row + 1
		}
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			if c := n.Child(i); c != nil && c.HasError() {
				stack = append(stack, c)
			}
		}
	}
	return root.StartPoint().Row + 1
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}
