// Package ensemble loads the exported model artifacts and evaluates the
// time-complexity classifier and the two score regressors.
package ensemble

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"complexify/internal/config"
	"complexify/internal/lexical"
	"complexify/internal/models"

	"github.com/cespare/xxhash/v2"
)

// ErrInvalidArtifact marks an artifact that was read but is unusable.
var ErrInvalidArtifact = errors.New("invalid model artifact")

// LabelEncoder maps classifier indices back to labels.
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

// Models is the process-wide artifact set. It is loaded once at startup and
// only read afterwards, so concurrent Predict calls need no locking.
type Models struct {
	Vectorizer  *lexical.Vectorizer
	Time        *Forest
	Cyclomatic  *Forest
	Readability *Forest
	TimeLabels  *LabelEncoder
	Fingerprint string
}

// Load reads and validates every artifact named in cfg. Any failure is meant
// to stop the process before it serves requests.
func Load(cfg config.ModelsConfig) (*Models, error) {
	digest := xxhash.New()
	read := func(name string, dst any) error {
		path := cfg.Path(name)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read model artifact %s: %w", path, err)
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(dst); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidArtifact, path, err)
		}
		_, _ = digest.WriteString(name)
		_, _ = digest.Write(data)
		return nil
	}

	m := &Models{
		Vectorizer:  &lexical.Vectorizer{},
		Time:        &Forest{},
		Cyclomatic:  &Forest{},
		Readability: &Forest{},
		TimeLabels:  &LabelEncoder{},
	}
	for _, a := range []struct {
		name string
		dst  any
	}{
		{cfg.Vectorizer, m.Vectorizer},
		{cfg.TimeClassifier, m.Time},
		{cfg.CyclomaticRegressor, m.Cyclomatic},
		{cfg.ReadabilityRegressor, m.Readability},
		{cfg.TimeEncoder, m.TimeLabels},
	} {
		if err := read(a.name, a.dst); err != nil {
			return nil, err
		}
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	m.Fingerprint = fmt.Sprintf("%016x", digest.Sum64())
	return m, nil
}

func (m *Models) validate() error {
	if err := m.Vectorizer.Validate(); err != nil {
		return fmt.Errorf("vectorizer: %w", err)
	}
	want := m.Vectorizer.Dim() + models.StructuralDims
	for name, f := range map[string]*Forest{
		"time classifier":       m.Time,
		"cyclomatic regressor":  m.Cyclomatic,
		"readability regressor": m.Readability,
	} {
		if err := f.validate(f == m.Time); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if f.NFeatures != want {
			return fmt.Errorf("%s expects %d features, vectorizer produces %d", name, f.NFeatures, want)
		}
	}
	if len(m.TimeLabels.Classes) != m.Time.NClasses {
		return fmt.Errorf("label encoder has %d classes, classifier has %d", len(m.TimeLabels.Classes), m.Time.NClasses)
	}
	return nil
}

// Predict runs the three models against one assembled vector.
func (m *Models) Predict(v models.FeatureVector) models.RawPrediction {
	return models.RawPrediction{
		TimeComplexity: m.TimeLabels.Classes[m.Time.PredictClass(v)],
		Cyclomatic:     m.Cyclomatic.Predict(v),
		Readability:    m.Readability.Predict(v),
	}
}
