package engine

import (
	"gonum.org/v1/gonum/floats"

	"gwplanner/internal/modules/planning/domain"
)

// EvaluateChips estimates the one-gameweek gain of each chip for the optimal
// lineup: bench boost adds the whole bench's EP, triple captain adds one more
// multiple of the captain's EP.
func EvaluateChips(lineup *domain.Lineup, captain domain.Player) domain.ChipEvaluation {
	benchEPs := make([]float64, len(lineup.Bench))
	for i, p := range lineup.Bench {
		benchEPs[i] = p.EP
	}
	return domain.ChipEvaluation{
		BenchBoostGain:    floats.Sum(benchEPs),
		TripleCaptainGain: captain.EP,
	}
}

// RecommendChip applies the activation thresholds. Bench boost is checked
// first: when both chips clear, the bigger squad-wide swing wins.
func RecommendChip(eval domain.ChipEvaluation) domain.ChipCode {
	if eval.BenchBoostGain >= domain.BenchBoostThreshold {
		return domain.ChipBenchBoost
	}
	if eval.TripleCaptainGain >= domain.TripleCaptainThreshold {
		return domain.ChipTripleCaptain
	}
	return domain.ChipNone
}
