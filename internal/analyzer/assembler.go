package analyzer

import "complexify/internal/models"

// StructuralScale lifts the 11 structural values to the weight of the
// thousands of sparse lexical dimensions.
const StructuralScale = 10.0

// Assemble appends the scaled structural values, in models.FeatureNames
// order, after the lexical vector. The order must match the one the ensemble
// was fit with.
func Assemble(lexical models.SparseVector, features models.StructuralFeatures) models.FeatureVector {
	v := models.FeatureVector{Lexical: lexical}
	for i, x := range features.Values() {
		v.Structural[i] = float64(x) * StructuralScale
	}
	return v
}
