package models

// Time-complexity classes the corrector can emit. The ensemble may return
// other labels; those pass through unchanged.
const (
	TimeConstant    = "constant"
	TimeLinear      = "linear"
	TimeQuadratic   = "quadratic"
	TimeCubic       = "cubic"
	TimeNP          = "np"
	TimeExponential = "exponential"
)

// StructuralFeatures holds the counters derived from the syntax tree.
// Field order matches FeatureNames and must not change without refitting the
// ensemble.
type StructuralFeatures struct {
	ForLoops         int `json:"for_loops"`
	WhileLoops       int `json:"while_loops"`
	IfStatements     int `json:"if_statements"`
	FunctionDefs     int `json:"function_defs"`
	Assignments      int `json:"assignments"`
	BinaryOps        int `json:"binary_ops"`
	Returns          int `json:"returns"`
	LoopDepth        int `json:"loop_depth"`      // max nesting over the whole tree
	RecursionCount   int `json:"recursion_count"` // direct self-calls only
	ControlFlowCount int `json:"control_flow_count"`
	NormalizedLength int `json:"normalized_length"`
}

// StructuralDims is the number of numeric features appended to the lexical vector.
const StructuralDims = 11

// FeatureNames lists the numeric features in vector order.
var FeatureNames = [StructuralDims]string{
	"for_loops",
	"while_loops",
	"if_statements",
	"function_defs",
	"assignments",
	"binary_ops",
	"returns",
	"loop_depth",
	"recursion_count",
	"control_flow_count",
	"normalized_length",
}

// Values returns the features in FeatureNames order.
func (f StructuralFeatures) Values() [StructuralDims]int {
	return [StructuralDims]int{
		f.ForLoops,
		f.WhileLoops,
		f.IfStatements,
		f.FunctionDefs,
		f.Assignments,
		f.BinaryOps,
		f.Returns,
		f.LoopDepth,
		f.RecursionCount,
		f.ControlFlowCount,
		f.NormalizedLength,
	}
}

// FeaturesFromValues is the inverse of Values.
func FeaturesFromValues(v [StructuralDims]int) StructuralFeatures {
	return StructuralFeatures{
		ForLoops:         v[0],
		WhileLoops:       v[1],
		IfStatements:     v[2],
		FunctionDefs:     v[3],
		Assignments:      v[4],
		BinaryOps:        v[5],
		Returns:          v[6],
		LoopDepth:        v[7],
		RecursionCount:   v[8],
		ControlFlowCount: v[9],
		NormalizedLength: v[10],
	}
}

// RawPrediction is the uncorrected ensemble output.
type RawPrediction struct {
	TimeComplexity string  `json:"time_complexity"`
	Cyclomatic     float64 `json:"cyclomatic"`
	Readability    float64 `json:"readability"`
}

// ComplexityEstimate is the final answer for one snippet.
type ComplexityEstimate struct {
	TimeComplexity  string  `json:"time_complexity"`
	SpaceComplexity string  `json:"space_complexity"`
	Cyclomatic      float64 `json:"cyclomatic_complexity"`
	Readability     float64 `json:"readability_score"`
	Suggestions     string  `json:"optimization_suggestions"`
}

// FileEstimate pairs an estimate with the signals that produced it.
type FileEstimate struct {
	File       string             `json:"file,omitempty"`
	Estimate   ComplexityEstimate `json:"estimate"`
	Features   StructuralFeatures `json:"features"`
	RawTime    string             `json:"raw_time_complexity"`
	ParseError string             `json:"parse_error,omitempty"`
}

// FileFailure records a file that could not be read.
type FileFailure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

type AnalysisResult struct {
	Files            []FileEstimate `json:"files"`
	Failures         []FileFailure  `json:"failures,omitempty"`
	TotalFiles       int            `json:"total_files"`
	LabelCounts      map[string]int `json:"label_counts"`
	ModelFingerprint string         `json:"model_fingerprint,omitempty"`
	AnalysisDuration string         `json:"analysis_duration"`
}

func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		Files:       make([]FileEstimate, 0),
		LabelCounts: make(map[string]int),
	}
}

func (ar *AnalysisResult) AddEstimate(fe FileEstimate) {
	ar.Files = append(ar.Files, fe)
	ar.TotalFiles++
	ar.LabelCounts[fe.Estimate.TimeComplexity]++
}

func (ar *AnalysisResult) AddFailure(file string, err error) {
	ar.Failures = append(ar.Failures, FileFailure{File: file, Error: err.Error()})
}
