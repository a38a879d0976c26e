package summarizer

import (
	"fmt"
	"math"
	"strings"

	apperrors "github.com/djvaroli/brevity/pkg/errors"
)

// Model identifies a supported chat model.
type Model string

const (
	ModelGPT35Turbo    Model = "gpt-3.5-turbo"
	ModelGPT35Turbo16K Model = "gpt-3.5-turbo-16k"
	ModelGPT4          Model = "gpt-4"
	ModelGPT432K       Model = "gpt-4-32k"
)

// ModelProfile describes the limits of a model.
type ModelProfile struct {
	ID        Model
	MaxTokens int
	Encoding  string
}

var models = []Model{ModelGPT35Turbo, ModelGPT35Turbo16K, ModelGPT4, ModelGPT432K}

// Budgets are rounded below the nominal limits.
var modelProfiles = map[Model]ModelProfile{
	ModelGPT35Turbo:    {ID: ModelGPT35Turbo, MaxTokens: 4000, Encoding: "cl100k_base"},
	ModelGPT35Turbo16K: {ID: ModelGPT35Turbo16K, MaxTokens: 16000, Encoding: "cl100k_base"},
	ModelGPT4:          {ID: ModelGPT4, MaxTokens: 8000, Encoding: "cl100k_base"},
	ModelGPT432K:       {ID: ModelGPT432K, MaxTokens: 32000, Encoding: "cl100k_base"},
}

// Models lists every supported model.
func Models() []Model {
	out := make([]Model, len(models))
	copy(out, models)
	return out
}

// LookupModel resolves a model identifier to its profile.
func LookupModel(id string) (ModelProfile, error) {
	profile, ok := modelProfiles[Model(strings.TrimSpace(id))]
	if !ok {
		return ModelProfile{}, apperrors.Wrap(apperrors.CodeConfiguration, fmt.Sprintf("unknown model %q", id), nil)
	}
	return profile, nil
}

// ContextLength is floor(bufferFraction * MaxTokens) for a known model.
func ContextLength(id Model, bufferFraction float64) (int, error) {
	profile, err := LookupModel(string(id))
	if err != nil {
		return 0, err
	}
	return profile.ContextLength(bufferFraction)
}

// ContextLength returns the usable token budget after reserving headroom.
func (p ModelProfile) ContextLength(bufferFraction float64) (int, error) {
	if p.MaxTokens <= 0 {
		return 0, apperrors.Wrap(apperrors.CodeConfiguration, fmt.Sprintf("model %q has no context length", string(p.ID)), nil)
	}
	if math.IsNaN(bufferFraction) || bufferFraction <= 0 || bufferFraction > 1 {
		return 0, apperrors.Wrap(apperrors.CodeConfiguration, fmt.Sprintf("buffer fraction %v must be in (0, 1]", bufferFraction), nil)
	}
	return int(math.Floor(bufferFraction * float64(p.MaxTokens))), nil
}

// ValidateModels fails if any enumerated model lacks a positive limit.
func ValidateModels() error {
	for _, id := range models {
		profile, ok := modelProfiles[id]
		if !ok || profile.MaxTokens <= 0 || profile.Encoding == "" {
			return apperrors.Wrap(apperrors.CodeConfiguration, fmt.Sprintf("model %q has no context length", string(id)), nil)
		}
	}
	return nil
}
