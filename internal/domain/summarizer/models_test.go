package summarizer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	apperrors "github.com/djvaroli/brevity/pkg/errors"
)

func TestContextLength(t *testing.T) {
	tests := []struct {
		name     string
		model    Model
		fraction float64
		want     int
	}{
		{name: "full budget", model: ModelGPT35Turbo, fraction: 1, want: 4000},
		{name: "buffered", model: ModelGPT35Turbo, fraction: 0.65, want: 2600},
		{name: "floored", model: ModelGPT35Turbo16K, fraction: 0.33333, want: 5333},
		{name: "gpt-4", model: ModelGPT4, fraction: 0.65, want: 5200},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ContextLength(tt.model, tt.fraction)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestContextLengthErrors(t *testing.T) {
	_, err := ContextLength("gpt-9", 0.5)
	require.True(t, apperrors.IsCode(err, apperrors.CodeConfiguration))

	for _, fraction := range []float64{0, -0.1, 1.01} {
		_, err := ContextLength(ModelGPT4, fraction)
		require.True(t, apperrors.IsCode(err, apperrors.CodeConfiguration), fraction)
	}
}

func TestEveryModelHasPositiveLimit(t *testing.T) {
	require.NoError(t, ValidateModels())
	for _, m := range Models() {
		got, err := ContextLength(m, 1)
		require.NoError(t, err)
		require.Positive(t, got)
	}
}

func TestContextLengthIsMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		model := rapid.SampledFrom(Models()).Draw(t, "model")
		a := rapid.Float64Range(0.0001, 1).Draw(t, "a")
		b := rapid.Float64Range(0.0001, 1).Draw(t, "b")
		if a > b {
			a, b = b, a
		}
		la, err := ContextLength(model, a)
		if err != nil {
			t.Fatal(err)
		}
		lb, err := ContextLength(model, b)
		if err != nil {
			t.Fatal(err)
		}
		if la > lb {
			t.Fatalf("contextLength(%v)=%d > contextLength(%v)=%d", a, la, b, lb)
		}
	})
}
