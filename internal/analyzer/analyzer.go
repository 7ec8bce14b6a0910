package analyzer

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"complexify/internal/config"
	"complexify/internal/lexical"
	"complexify/internal/models"

	"golang.org/x/sync/errgroup"
)

// Vectorizer maps a normalized token stream to the fitted lexical space.
type Vectorizer interface {
	Vectorize(normalized string) models.SparseVector
}

// Predictor is the trained ensemble.
type Predictor interface {
	Predict(v models.FeatureVector) models.RawPrediction
}

// Analyzer runs the full estimate pipeline. The vectorizer and predictor are
// shared read-only across calls; every call builds its own tree and vector.
type Analyzer struct {
	extractor   *Extractor
	vectorizer  Vectorizer
	predictor   Predictor
	space       string
	suggestions string
	maxWorkers  int
	maxFileSize int64
	fingerprint string
}

func NewAnalyzer(vectorizer Vectorizer, predictor Predictor, cfg *config.Config) *Analyzer {
	return &Analyzer{
		extractor:   NewExtractor(cfg.Analysis.CountExceptionHandlers),
		vectorizer:  vectorizer,
		predictor:   predictor,
		space:       cfg.Analysis.SpaceComplexityLabel,
		suggestions: cfg.Analysis.OptimizationSuggestions,
		maxWorkers:  cfg.Analysis.MaxWorkers,
		maxFileSize: int64(cfg.Files.MaxFileSize) * 1024,
	}
}

// WithFingerprint tags results with the loaded model set.
func (a *Analyzer) WithFingerprint(fingerprint string) *Analyzer {
	a.fingerprint = fingerprint
	return a
}

func (a *Analyzer) Fingerprint() string {
	return a.fingerprint
}

// Analyze estimates the complexity of one snippet.
func (a *Analyzer) Analyze(source string) models.ComplexityEstimate {
	return a.Explain(source).Estimate
}

// Explain is Analyze with the intermediate signals attached.
func (a *Analyzer) Explain(source string) models.FileEstimate {
	normalized := lexical.Normalize(source)

	features, parseErr := a.extractor.Inspect(source)
	features.NormalizedLength = len(normalized)

	vector := Assemble(a.vectorizer.Vectorize(normalized), features)
	raw := a.predictor.Predict(vector)

	fe := models.FileEstimate{
		Estimate: models.ComplexityEstimate{
			TimeComplexity:  Correct(raw, features),
			SpaceComplexity: a.space,
			Cyclomatic:      round2(raw.Cyclomatic),
			Readability:     round2(raw.Readability),
			Suggestions:     a.suggestions,
		},
		Features: features,
		RawTime:  raw.TimeComplexity,
	}
	if parseErr != nil {
		fe.ParseError = parseErr.Error()
	}
	return fe
}

// AnalyzeFiles estimates each file with at most max_workers in flight. Files
// that cannot be read are recorded as failures; results keep input order.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, filenames []string) (*models.AnalysisResult, error) {
	startTime := time.Now()

	estimates := make([]*models.FileEstimate, len(filenames))
	failures := make([]error, len(filenames))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxWorkers)
	for i, filename := range filenames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			source, err := a.readFile(filename)
			if err != nil {
				failures[i] = err
				return nil
			}
			fe := a.Explain(source)
			fe.File = filename
			estimates[i] = &fe
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := models.NewAnalysisResult()
	result.ModelFingerprint = a.fingerprint
	for i, filename := range filenames {
		if failures[i] != nil {
			result.AddFailure(filename, failures[i])
			continue
		}
		result.AddEstimate(*estimates[i])
	}
	result.AnalysisDuration = time.Since(startTime).String()
	return result, nil
}

func (a *Analyzer) readFile(filename string) (string, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return "", err
	}
	if a.maxFileSize > 0 && info.Size() > a.maxFileSize {
		return "", fmt.Errorf("file is %d bytes, limit is %d", info.Size(), a.maxFileSize)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DetectorNames returns the names of all active structural detectors
func (a *Analyzer) DetectorNames() []string {
	return a.extractor.DetectorNames()
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
