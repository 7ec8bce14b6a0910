package analyzer

import "complexify/internal/models"

// Correct rewrites the ensemble's time-complexity label with the structural
// signals. The first matching rule wins:
//
//	recursion  depth  condition                   result
//	0          >=3                                cubic
//	0          2                                  quadratic
//	0          1      raw in {quadratic,cubic,np} linear
//	0          1      otherwise                   raw
//	0          0                                  constant
//	>0         0      recursion >= 2              exponential
//	>0         0      recursion 1, raw constant   linear
//	>0         any    otherwise                   raw
func Correct(raw models.RawPrediction, features models.StructuralFeatures) string {
	label := raw.TimeComplexity

	if features.RecursionCount == 0 {
		switch {
		case features.LoopDepth >= 3:
			return models.TimeCubic
		case features.LoopDepth == 2:
			return models.TimeQuadratic
		case features.LoopDepth == 1:
			switch label {
			case models.TimeQuadratic, models.TimeCubic, models.TimeNP:
				return models.TimeLinear
			}
			return label
		default:
			return models.TimeConstant
		}
	}

	if features.LoopDepth == 0 {
		if features.RecursionCount >= 2 {
			return models.TimeExponential
		}
		if label == models.TimeConstant {
			return models.TimeLinear
		}
	}
	return label
}
