package summarizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/djvaroli/brevity/pkg/errors"
)

func TestSummaryLengthMappings(t *testing.T) {
	tests := []struct {
		length    SummaryLength
		sentences string
		words     int
	}{
		{length: LengthShort, sentences: "3 - 5 sentences", words: 80},
		{length: LengthMedium, sentences: "10 - 12 sentences", words: 160},
		{length: LengthLong, sentences: "25 - 30 sentences", words: 320},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.length), func(t *testing.T) {
			t.Parallel()
			sentences, err := tt.length.Sentences()
			require.NoError(t, err)
			require.Equal(t, tt.sentences, sentences)
			words, err := tt.length.Words()
			require.NoError(t, err)
			require.Equal(t, tt.words, words)
		})
	}
}

func TestEveryLengthIsMapped(t *testing.T) {
	require.NoError(t, ValidateLengths())
	for _, l := range SummaryLengths() {
		_, err := l.Words()
		require.NoError(t, err, l)
	}
}

func TestUnmappedLengthIsConfigurationError(t *testing.T) {
	_, err := SummaryLength("EPIC").Words()
	require.True(t, apperrors.IsCode(err, apperrors.CodeConfiguration))

	err = validateLengthTable([]SummaryLength{LengthShort, "EPIC"}, lengthTargets)
	require.True(t, apperrors.IsCode(err, apperrors.CodeConfiguration))
	require.Contains(t, err.Error(), "EPIC")
}

func TestParseSummaryLength(t *testing.T) {
	got, err := ParseSummaryLength(" short ")
	require.NoError(t, err)
	require.Equal(t, LengthShort, got)

	_, err = ParseSummaryLength("tiny")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}
