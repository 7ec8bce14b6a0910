package models

import "sort"

// SparseVector is a lexical vector in coordinate form. Indices are strictly
// increasing.
type SparseVector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// At returns the value at index i, or zero.
func (s SparseVector) At(i int) float64 {
	k := sort.SearchInts(s.Indices, i)
	if k < len(s.Indices) && s.Indices[k] == i {
		return s.Values[k]
	}
	return 0
}

// FeatureVector is the lexical vector followed by the scaled structural values.
type FeatureVector struct {
	Lexical    SparseVector
	Structural [StructuralDims]float64
}

// Len is the total dimensionality.
func (v FeatureVector) Len() int {
	return v.Lexical.Dim + StructuralDims
}

// At returns component i of the concatenated vector.
func (v FeatureVector) At(i int) float64 {
	if i < v.Lexical.Dim {
		return v.Lexical.At(i)
	}
	j := i - v.Lexical.Dim
	if j < StructuralDims {
		return v.Structural[j]
	}
	return 0
}

// Dense materializes the full vector.
func (v FeatureVector) Dense() []float64 {
	out := make([]float64, v.Len())
	for k, idx := range v.Lexical.Indices {
		out[idx] = v.Lexical.Values[k]
	}
	copy(out[v.Lexical.Dim:], v.Structural[:])
	return out
}
