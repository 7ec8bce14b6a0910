package analyzer

import (
	"math/rand"
	"testing"

	"complexify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleOrder(t *testing.T) {
	features := models.StructuralFeatures{
		ForLoops: 1, WhileLoops: 2, IfStatements: 3, FunctionDefs: 4, Assignments: 5,
		BinaryOps: 6, Returns: 7, LoopDepth: 8, RecursionCount: 9, ControlFlowCount: 10,
		NormalizedLength: 11,
	}
	lex := models.SparseVector{Dim: 3, Indices: []int{1}, Values: []float64{0.5}}

	v := Assemble(lex, features)
	require.Equal(t, 14, v.Len())
	assert.Equal(t, []float64{0, 0.5, 0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 110}, v.Dense())
	assert.Equal(t, 80.0, v.At(3+7), "loop_depth sits at offset 7")
}

func TestAssembleRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for range 500 {
		var values [models.StructuralDims]int
		for i := range values {
			values[i] = rng.Intn(10000)
		}
		features := models.FeaturesFromValues(values)

		v := Assemble(models.SparseVector{Dim: rng.Intn(50)}, features)

		var back [models.StructuralDims]int
		for i, x := range v.Structural {
			back[i] = int(x / StructuralScale)
		}
		require.Equal(t, features, models.FeaturesFromValues(back))
		require.Equal(t, values, features.Values())
	}
}
