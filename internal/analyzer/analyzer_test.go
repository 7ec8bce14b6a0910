package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"complexify/internal/config"
	"complexify/internal/ensemble"
	"complexify/internal/models"
	"complexify/internal/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var testdata = filepath.Join("..", "..", "testdata")

func readSample(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(testdata, "python", name))
	require.NoError(t, err)
	return string(data)
}

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Models.Dir = filepath.Join(testdata, "models")
	cfg.Analysis.MaxWorkers = 2
	m, err := ensemble.Load(cfg.Models)
	require.NoError(t, err)
	return NewAnalyzer(m.Vectorizer, m, cfg).WithFingerprint(m.Fingerprint)
}

// fixedPredictor returns the same raw prediction for every vector.
type fixedPredictor struct {
	raw  models.RawPrediction
	seen []models.FeatureVector
}

func (p *fixedPredictor) Predict(v models.FeatureVector) models.RawPrediction {
	p.seen = append(p.seen, v)
	return p.raw
}

type emptyVectorizer struct{}

func (emptyVectorizer) Vectorize(string) models.SparseVector { return models.SparseVector{Dim: 4} }

func TestExtractSamples(t *testing.T) {
	e := NewExtractor(true)

	matrix := e.Extract(readSample(t, "matrix.py"))
	assert.Equal(t, models.StructuralFeatures{
		ForLoops: 3, FunctionDefs: 1, Assignments: 2, BinaryOps: 1, Returns: 1,
		LoopDepth: 3, ControlFlowCount: 3,
	}, matrix)

	fib := e.Extract(readSample(t, "fibonacci.py"))
	assert.Equal(t, models.StructuralFeatures{
		IfStatements: 1, FunctionDefs: 1, BinaryOps: 3, Returns: 2,
		RecursionCount: 2, ControlFlowCount: 1,
	}, fib)

	search := e.Extract(readSample(t, "linear_search.py"))
	assert.Equal(t, models.StructuralFeatures{
		ForLoops: 1, IfStatements: 1, FunctionDefs: 1, Returns: 2,
		LoopDepth: 1, ControlFlowCount: 2,
	}, search)
}

func TestExtractMalformedIsZero(t *testing.T) {
	e := NewExtractor(true)
	for _, src := range []string{
		readSample(t, "broken.py"),
		"while (:",
		"def f(:\n  for",
		"for i in x:\nprint(i)\n",
		"def f(x):\n  return f(x-1) + f(x-2)\n x = 1\n",
		"print 'hello'\nfor i in x:\n    for j in x:\n        pass\n",
	} {
		features, err := e.Inspect(src)
		assert.ErrorIs(t, err, syntax.ErrSyntax)
		assert.Equal(t, models.StructuralFeatures{}, features)
		assert.Equal(t, models.StructuralFeatures{}, e.Extract(src))
	}
}

func TestAnalyzeSamples(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		file       string
		raw        string
		time       string
		cyclomatic float64
	}{
		{"matrix.py", models.TimeQuadratic, models.TimeCubic, 2.0},
		{"fibonacci.py", models.TimeNP, models.TimeExponential, 2.67},
		{"linear_search.py", models.TimeQuadratic, models.TimeLinear, 2.67},
		{"broken.py", models.TimeNP, models.TimeConstant, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			fe := a.Explain(readSample(t, tt.file))
			assert.Equal(t, tt.raw, fe.RawTime)
			assert.Equal(t, models.ComplexityEstimate{
				TimeComplexity:  tt.time,
				SpaceComplexity: "Unknown",
				Cyclomatic:      tt.cyclomatic,
				Readability:     72.46,
				Suggestions:     config.DefaultConfig().Analysis.OptimizationSuggestions,
			}, fe.Estimate)
		})
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	a := newTestAnalyzer(t)
	src := readSample(t, "matrix.py")
	assert.Equal(t, a.Explain(src), a.Explain(src))
}

func TestAnalyzeLinearRawUnchanged(t *testing.T) {
	cfg := config.DefaultConfig()
	p := &fixedPredictor{raw: models.RawPrediction{TimeComplexity: models.TimeLinear, Cyclomatic: 3.14159, Readability: 60.006}}
	a := NewAnalyzer(emptyVectorizer{}, p, cfg)

	est := a.Analyze(readSample(t, "linear_search.py"))
	assert.Equal(t, models.TimeLinear, est.TimeComplexity)
	assert.Equal(t, 3.14, est.Cyclomatic)
	assert.InDelta(t, 60.01, est.Readability, 1e-9)
}

func TestAnalyzePassesNormalizedLength(t *testing.T) {
	cfg := config.DefaultConfig()
	p := &fixedPredictor{raw: models.RawPrediction{TimeComplexity: models.TimeNP}}
	a := NewAnalyzer(emptyVectorizer{}, p, cfg)

	fe := a.Explain("def (:  # broken")
	assert.NotEmpty(t, fe.ParseError)
	assert.Equal(t, models.TimeConstant, fe.Estimate.TimeComplexity)
	// "def" survives normalization even though parsing failed
	assert.Equal(t, 3, fe.Features.NormalizedLength)

	require.Len(t, p.seen, 1)
	v := p.seen[0]
	assert.Equal(t, 15, v.Len())
	assert.Equal(t, 30.0, v.At(4+10))
}

func TestAnalyzeFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	a := newTestAnalyzer(t)
	files := []string{
		filepath.Join(testdata, "python", "matrix.py"),
		filepath.Join(testdata, "python", "missing.py"),
		filepath.Join(testdata, "python", "fibonacci.py"),
		filepath.Join(testdata, "python", "linear_search.py"),
	}

	result, err := a.AnalyzeFiles(context.Background(), files)
	require.NoError(t, err)

	require.Len(t, result.Files, 3)
	assert.Equal(t, files[0], result.Files[0].File)
	assert.Equal(t, files[2], result.Files[1].File)
	assert.Equal(t, files[3], result.Files[2].File)
	assert.Equal(t, 3, result.TotalFiles)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, files[1], result.Failures[0].File)

	assert.Equal(t, map[string]int{
		models.TimeCubic:       1,
		models.TimeExponential: 1,
		models.TimeLinear:      1,
	}, result.LabelCounts)
	assert.Equal(t, a.Fingerprint(), result.ModelFingerprint)
}

func TestAnalyzeFilesHonorsSizeLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Files.MaxFileSize = 1
	a := NewAnalyzer(emptyVectorizer{}, &fixedPredictor{}, cfg)

	path := filepath.Join(t.TempDir(), "big.py")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0644))

	result, err := a.AnalyzeFiles(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0].Error, "limit")
}

func TestAnalyzeFilesCancelled(t *testing.T) {
	a := newTestAnalyzer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.AnalyzeFiles(ctx, []string{filepath.Join(testdata, "python", "matrix.py")})
	assert.ErrorIs(t, err, context.Canceled)
}
