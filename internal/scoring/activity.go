package scoring

import (
	"math"

	"StockScorer/internal/model"
)

// StateLadder maps the accumulated activity score to a state.
var StateLadder = Ladder{
	Rungs: []Rung{
		{AtLeast, 5, 0, string(model.StateHot)},
		{AtLeast, 3, 0, string(model.StateWarm)},
		{AtLeast, 1, 0, string(model.StateCold)},
	},
	Floor: Rung{Label: string(model.StateFrozen)},
}

// Activity accumulates the volume and price-move components.
// The volume term is skipped when there is no baseline.
func Activity(volume, avgVolume, changePct float64) int {
	activity := 0
	if avgVolume > 0 {
		activity += VolumeActivity.Lookup(volume / avgVolume).Score
	}
	activity += MoveActivity.Lookup(math.Abs(changePct)).Score
	return activity
}

// ClassifyActivity labels trading intensity as HOT, WARM, COLD or FROZEN.
func ClassifyActivity(volume, avgVolume, changePct float64) model.ActivityState {
	return model.ActivityState(StateLadder.Lookup(float64(Activity(volume, avgVolume, changePct))).Label)
}
