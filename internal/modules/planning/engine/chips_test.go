package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gwplanner/internal/modules/planning/domain"
)

func TestEvaluateChips(t *testing.T) {
	squad := exampleSquad()
	lineup, err := OptimizeLineup(&squad)
	require.NoError(t, err)
	choice := SelectCaptaincy(lineup.Starters, domain.ModeSafe)

	eval := EvaluateChips(lineup, choice.Captain)

	// Bench: 4.5 + 1.0 + 1.0 + 0.9
	assert.InDelta(t, 7.4, eval.BenchBoostGain, 1e-9)
	assert.InDelta(t, 4.0, eval.TripleCaptainGain, 1e-9)
}

func TestRecommendChipThresholds(t *testing.T) {
	assert.Equal(t, domain.ChipNone,
		RecommendChip(domain.ChipEvaluation{BenchBoostGain: 11.99, TripleCaptainGain: 3.99}))
	assert.Equal(t, domain.ChipBenchBoost,
		RecommendChip(domain.ChipEvaluation{BenchBoostGain: 12.0, TripleCaptainGain: 0}))
	assert.Equal(t, domain.ChipTripleCaptain,
		RecommendChip(domain.ChipEvaluation{BenchBoostGain: 0, TripleCaptainGain: 4.0}))
	// Both clearing prefers the squad-wide chip
	assert.Equal(t, domain.ChipBenchBoost,
		RecommendChip(domain.ChipEvaluation{BenchBoostGain: 12.5, TripleCaptainGain: 6.0}))
}
