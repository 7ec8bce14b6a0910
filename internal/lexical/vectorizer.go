package lexical

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"complexify/internal/models"
)

var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// Vectorizer is a fitted TF-IDF transform. It is immutable after loading and
// safe for concurrent use.
type Vectorizer struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	Norm        string         `json:"norm"`
	SublinearTF bool           `json:"sublinear_tf"`
	NgramRange  [2]int         `json:"ngram_range"`
}

// Validate checks the fitted parameters for internal consistency.
func (v *Vectorizer) Validate() error {
	if len(v.Vocabulary) == 0 {
		return fmt.Errorf("empty vocabulary")
	}
	if len(v.IDF) != len(v.Vocabulary) {
		return fmt.Errorf("idf has %d entries, vocabulary has %d", len(v.IDF), len(v.Vocabulary))
	}
	for term, idx := range v.Vocabulary {
		if idx < 0 || idx >= len(v.IDF) {
			return fmt.Errorf("term %q has index %d out of range", term, idx)
		}
	}
	switch v.Norm {
	case "", "l1", "l2":
	default:
		return fmt.Errorf("unsupported norm %q", v.Norm)
	}
	if v.NgramRange == [2]int{} {
		v.NgramRange = [2]int{1, 1}
	}
	if v.NgramRange[0] < 1 || v.NgramRange[1] < v.NgramRange[0] {
		return fmt.Errorf("invalid ngram_range %v", v.NgramRange)
	}
	return nil
}

// Dim is the lexical dimensionality.
func (v *Vectorizer) Dim() int {
	return len(v.IDF)
}

// Vectorize maps a normalized token stream to its TF-IDF vector. Terms outside
// the vocabulary are ignored.
func (v *Vectorizer) Vectorize(normalized string) models.SparseVector {
	counts := make(map[int]float64)
	for _, term := range v.terms(normalized) {
		if idx, ok := v.Vocabulary[term]; ok {
			counts[idx]++
		}
	}

	out := models.SparseVector{Dim: v.Dim()}
	if len(counts) == 0 {
		return out
	}
	out.Indices = make([]int, 0, len(counts))
	for idx := range counts {
		out.Indices = append(out.Indices, idx)
	}
	sort.Ints(out.Indices)

	out.Values = make([]float64, len(out.Indices))
	var norm float64
	for k, idx := range out.Indices {
		tf := counts[idx]
		if v.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		w := tf * v.IDF[idx]
		out.Values[k] = w
		switch v.Norm {
		case "l2":
			norm += w * w
		case "l1":
			norm += math.Abs(w)
		}
	}
	if v.Norm == "l2" {
		norm = math.Sqrt(norm)
	}
	if norm > 0 {
		for k := range out.Values {
			out.Values[k] /= norm
		}
	}
	return out
}

func (v *Vectorizer) terms(normalized string) []string {
	tokens := tokenPattern.FindAllString(normalized, -1)
	lo, hi := v.NgramRange[0], v.NgramRange[1]
	if lo == 0 {
		lo, hi = 1, 1
	}
	if lo == 1 && hi == 1 {
		return tokens
	}
	var terms []string
	for n := lo; n <= hi; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}
