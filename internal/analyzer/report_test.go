package analyzer

import (
	"encoding/json"
	"testing"

	"complexify/internal/config"
	"complexify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *models.AnalysisResult {
	result := models.NewAnalysisResult()
	result.ModelFingerprint = "00ff00ff00ff00ff"
	result.AddEstimate(models.FileEstimate{
		File: "search.py",
		Estimate: models.ComplexityEstimate{
			TimeComplexity:  models.TimeLinear,
			SpaceComplexity: "Unknown",
			Cyclomatic:      2.5,
			Readability:     71.25,
			Suggestions:     "Prefer sets for membership tests.",
		},
		Features: models.StructuralFeatures{ForLoops: 1, LoopDepth: 1, NormalizedLength: 42},
		RawTime:  models.TimeQuadratic,
	})
	result.AddEstimate(models.FileEstimate{
		File:       "broken.py",
		Estimate:   models.ComplexityEstimate{TimeComplexity: models.TimeConstant},
		RawTime:    models.TimeNP,
		ParseError: "syntax error near line 1",
	})
	result.AddFailure("gone.py", assert.AnError)
	result.AnalysisDuration = "1ms"
	return result
}

func TestConsoleReport(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Colors = false
	cfg.Output.Verbose = true

	out := NewReportGeneratorWithConfig(cfg).Generate(sampleResult())

	assert.Contains(t, out, "Complexify Analysis Report")
	assert.Contains(t, out, "Files analyzed: 2")
	assert.Contains(t, out, "Files skipped: 1")
	assert.Contains(t, out, "linear: 1")
	assert.Contains(t, out, "constant: 1")
	assert.Contains(t, out, "search.py")
	assert.Contains(t, out, "broken.py (unparsed)")
	assert.Contains(t, out, "71.25")
	assert.Contains(t, out, "00ff00ff00ff00ff")
	assert.Contains(t, out, "Prefer sets for membership tests.")
	assert.Contains(t, out, "gone.py")
	assert.Contains(t, out, "Analysis completed in 1ms")
}

func TestJSONReport(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Format = "json"

	out := NewReportGeneratorWithConfig(cfg).Generate(sampleResult())

	var decoded models.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 2, decoded.TotalFiles)
	assert.Equal(t, 42, decoded.Files[0].Features.NormalizedLength)
	assert.Equal(t, "syntax error near line 1", decoded.Files[1].ParseError)
	assert.Equal(t, 1, decoded.LabelCounts[models.TimeLinear])
}
