package engine

import (
	"sort"

	"gwplanner/internal/modules/planning/domain"
)

// Aggressive mode scales EP by a bounded fixture bonus: up to +10% for
// opponent weakness plus +5% at home, so a captain score never exceeds
// 1.15x the player's EP.
const (
	aggressiveStrengthBonus = 0.10
	aggressiveHomeBonus     = 0.05
)

// CaptainScore scores a player for the armband. Safe mode is EP alone;
// aggressive mode rewards favorable fixtures within the bounded bonus.
func CaptainScore(p domain.Player, mode domain.Mode) float64 {
	if mode != domain.ModeAggressive {
		return p.EP
	}
	bonus := 0.0
	if p.Fixture != nil {
		strength := p.Fixture.OpponentStrength
		if strength < 1 {
			strength = 1
		}
		if strength > 5 {
			strength = 5
		}
		bonus += aggressiveStrengthBonus * float64(strength-1) / 4.0
		if p.Fixture.WasHome {
			bonus += aggressiveHomeBonus
		}
	}
	return p.EP * (1.0 + bonus)
}

// SelectCaptaincy picks captain and vice-captain from the starters.
// Goalkeepers never wear the armband. Ranking is by captain score with the
// usual deterministic tie-breaks (fixture factor, then lower id); the vice
// is the second-ranked outfielder.
func SelectCaptaincy(starters []domain.Player, mode domain.Mode) domain.CaptaincyChoice {
	outfield := make([]domain.Player, 0, len(starters))
	for _, p := range starters {
		if p.Position != domain.PositionGK {
			outfield = append(outfield, p)
		}
	}

	sort.SliceStable(outfield, func(i, j int) bool {
		si, sj := CaptainScore(outfield[i], mode), CaptainScore(outfield[j], mode)
		if si != sj {
			return si > sj
		}
		fi, fj := domain.FixtureFactor(outfield[i]), domain.FixtureFactor(outfield[j])
		if fi != fj {
			return fi > fj
		}
		return outfield[i].ID < outfield[j].ID
	})

	choice := domain.CaptaincyChoice{}
	if len(outfield) > 0 {
		choice.Captain = outfield[0]
	}
	if len(outfield) > 1 {
		choice.ViceCaptain = outfield[1]
	}
	return choice
}
