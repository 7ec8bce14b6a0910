package detectors

import (
	"testing"

	"complexify/internal/models"
	"complexify/internal/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type detector interface {
	Detect(*syntax.Tree, *models.StructuralFeatures)
}

func detect(t *testing.T, d detector, src string) models.StructuralFeatures {
	t.Helper()
	tree, err := syntax.Parse([]byte(src))
	require.NoError(t, err)
	var f models.StructuralFeatures
	d.Detect(tree, &f)
	return f
}

func TestNestedLoopDetector(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"no loops", "x = 1\n", 0},
		{"single loop", "for i in xs:\n    pass\n", 1},
		{"while inside for", "for i in xs:\n    while i:\n        i -= 1\n", 2},
		{
			"triple nested",
			"for i in a:\n    for j in b:\n        for k in c:\n            pass\n",
			3,
		},
		{
			"global maximum across functions",
			"def f(a):\n    for i in a:\n        pass\n\ndef g(a):\n    for i in a:\n        for j in a:\n            pass\n",
			2,
		},
		{"loop nested under if", "if x:\n    for i in a:\n        if i:\n            while True:\n                break\n", 2},
		{"comprehension does not nest", "for i in a:\n    b = [j for j in a for k in a]\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := detect(t, NewNestedLoopDetector(), tt.src)
			assert.Equal(t, tt.want, f.LoopDepth)
		})
	}
}

func TestRecursionDetector(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"fibonacci", "def fib(n):\n    if n <= 1:\n        return n\n    return fib(n-1) + fib(n-2)\n", 2},
		{"single self call", "def fact(n):\n    return 1 if n == 0 else n * fact(n - 1)\n", 1},
		{"method call is not counted", "class T:\n    def walk(self, n):\n        return self.walk(n)\n", 0},
		{"mutual recursion is not counted", "def a(n):\n    return b(n)\n\ndef b(n):\n    return a(n)\n", 0},
		{"call outside body", "def f():\n    return 1\n\nf()\n", 0},
		{
			"nested functions count for both",
			"def outer(n):\n    def inner(m):\n        return inner(m) + outer(m)\n    return inner(n)\n",
			2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := detect(t, NewRecursionDetector(), tt.src)
			assert.Equal(t, tt.want, f.RecursionCount)
		})
	}
}

func TestComplexityDetector(t *testing.T) {
	src := `
def process(items):
    total = 0
    for item in items:
        if item > 0:
            total += item * 2
        elif item < 0:
            total -= 1
    while total > 100:
        total = total // 2
    try:
        check(total)
    except ValueError:
        return None
    return total
`
	f := detect(t, NewComplexityDetector(true), src)
	assert.Equal(t, models.StructuralFeatures{
		ForLoops:         1,
		WhileLoops:       1,
		IfStatements:     2,
		FunctionDefs:     1,
		Assignments:      4,
		BinaryOps:        2,
		Returns:          2,
		ControlFlowCount: 6,
	}, f)

	withoutHandlers := detect(t, NewComplexityDetector(false), src)
	assert.Equal(t, 4, withoutHandlers.ControlFlowCount)
}
