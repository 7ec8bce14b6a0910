package lexical

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips hash comments", "x = 1  # set the counter\n", "x 1"},
		{"strips slash comments", "total += i // running sum", "total"},
		{"lowercases and drops symbols", "Result[i][j] += A[i]*B[j]", "result j b j"},
		{"drops stop words", "for item in items:\n    if item: return item", "item items item return item"},
		{"keeps underscores and digits", "max_len2 = len(arr_1)", "max_len2 len arr_1"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func newTestVectorizer(t *testing.T) *Vectorizer {
	t.Helper()
	v := &Vectorizer{
		Vocabulary: map[string]int{"range": 0, "len": 1, "return": 2, "result": 3},
		IDF:        []float64{1.0, 2.0, 1.5, 3.0},
		Norm:       "l2",
	}
	require.NoError(t, v.Validate())
	return v
}

func TestVectorizeL2(t *testing.T) {
	v := newTestVectorizer(t)

	vec := v.Vectorize("range len len unknown x")
	assert.Equal(t, 4, vec.Dim)
	assert.Equal(t, []int{0, 1}, vec.Indices)

	// raw weights 1*1 and 2*2
	norm := math.Sqrt(1 + 16)
	assert.InDelta(t, 1/norm, vec.At(0), 1e-12)
	assert.InDelta(t, 4/norm, vec.At(1), 1e-12)
	assert.Zero(t, vec.At(3))
}

func TestVectorizeSingleCharTokensIgnored(t *testing.T) {
	v := newTestVectorizer(t)
	v.Vocabulary["x"] = 3
	vec := v.Vectorize("x x x")
	assert.Empty(t, vec.Indices)
}

func TestVectorizeBigrams(t *testing.T) {
	v := &Vectorizer{
		Vocabulary: map[string]int{"return result": 0, "result": 1},
		IDF:        []float64{1, 1},
		NgramRange: [2]int{1, 2},
	}
	require.NoError(t, v.Validate())
	vec := v.Vectorize("return result")
	assert.Equal(t, []int{0, 1}, vec.Indices)
	assert.Equal(t, []float64{1, 1}, vec.Values)
}

func TestVectorizerValidate(t *testing.T) {
	assert.Error(t, (&Vectorizer{}).Validate())
	assert.Error(t, (&Vectorizer{Vocabulary: map[string]int{"a": 0}, IDF: []float64{1, 2}}).Validate())
	assert.Error(t, (&Vectorizer{Vocabulary: map[string]int{"a": 3}, IDF: []float64{1}}).Validate())
	assert.Error(t, (&Vectorizer{Vocabulary: map[string]int{"a": 0}, IDF: []float64{1}, Norm: "max"}).Validate())

	v := &Vectorizer{Vocabulary: map[string]int{"a": 0}, IDF: []float64{1}}
	require.NoError(t, v.Validate())
	assert.Equal(t, [2]int{1, 1}, v.NgramRange)
}
