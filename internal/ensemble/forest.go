package ensemble

import (
	"fmt"

	"complexify/internal/models"
)

const leaf = -1

// Tree is one fitted decision tree in the array layout exported by
// scikit-learn. A node is a leaf when ChildrenLeft is -1; otherwise samples
// with x[Feature] <= Threshold go left.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

func (t *Tree) validate(nFeatures, width int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("tree arrays differ in length")
	}
	for i := range n {
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l == leaf {
			if len(t.Value[i]) != width {
				return fmt.Errorf("node %d has %d values, want %d", i, len(t.Value[i]), width)
			}
			continue
		}
		// children always follow their parent, which also rules out cycles
		if l <= i || l >= n || r <= i || r >= n {
			return fmt.Errorf("node %d has children out of range", i)
		}
		if f := t.Feature[i]; f < 0 || f >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d of %d", i, f, nFeatures)
		}
	}
	return nil
}

func (t *Tree) leafValue(x models.FeatureVector) []float64 {
	node := 0
	for t.ChildrenLeft[node] != leaf {
		if x.At(t.Feature[node]) <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// Forest is a random forest classifier (NClasses > 0) or regressor.
type Forest struct {
	NFeatures int    `json:"n_features"`
	NClasses  int    `json:"n_classes"`
	Trees     []Tree `json:"trees"`
}

func (f *Forest) validate(classifier bool) error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	if f.NFeatures < 1 {
		return fmt.Errorf("n_features must be positive")
	}
	width := 1
	if classifier {
		if f.NClasses < 1 {
			return fmt.Errorf("classifier has no classes")
		}
		width = f.NClasses
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(f.NFeatures, width); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

// PredictProba averages the per-tree class distributions.
func (f *Forest) PredictProba(x models.FeatureVector) []float64 {
	proba := make([]float64, f.NClasses)
	for i := range f.Trees {
		v := f.Trees[i].leafValue(x)
		var total float64
		for _, c := range v {
			total += c
		}
		if total == 0 {
			continue
		}
		for k, c := range v {
			proba[k] += c / total
		}
	}
	for k := range proba {
		proba[k] /= float64(len(f.Trees))
	}
	return proba
}

// PredictClass returns the most probable class index, lowest index on ties.
func (f *Forest) PredictClass(x models.FeatureVector) int {
	best := 0
	proba := f.PredictProba(x)
	for k, p := range proba {
		if p > proba[best] {
			best = k
		}
	}
	return best
}

// Predict averages the per-tree regression outputs.
func (f *Forest) Predict(x models.FeatureVector) float64 {
	var sum float64
	for i := range f.Trees {
		sum += f.Trees[i].leafValue(x)[0]
	}
	return sum / float64(len(f.Trees))
}
