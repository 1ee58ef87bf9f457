package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"StockScorer/internal/model"
)

func TestActivity(t *testing.T) {
	tests := []struct {
		name      string
		volume    float64
		avgVolume float64
		changePct float64
		activity  int
		state     model.ActivityState
	}{
		{"surge and big move", 300, 100, 6, 6, model.StateHot},
		{"surge and big drop", 300, 100, -6, 6, model.StateHot},
		{"strong volume, move over 3", 200, 100, 3.5, 4, model.StateWarm},
		{"elevated volume only", 160, 100, 0, 2, model.StateCold},
		{"slightly above baseline", 110, 100, 0, 1, model.StateCold},
		{"exactly baseline", 100, 100, 0, 0, model.StateFrozen},
		{"thin volume", 40, 100, 0, -1, model.StateFrozen},
		{"thin volume big move", 40, 100, 5.5, 2, model.StateCold},
		{"no baseline", 1e9, 0, 1.6, 1, model.StateCold},
		{"ratio exactly 2.5", 250, 100, 0, 2, model.StateCold},
		{"move exactly 5", 100, 100, 5, 2, model.StateCold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.activity, Activity(tt.volume, tt.avgVolume, tt.changePct))
			assert.Equal(t, tt.state, ClassifyActivity(tt.volume, tt.avgVolume, tt.changePct))
		})
	}
}

func TestClassifyActivity_Thresholds(t *testing.T) {
	assert.Equal(t, model.StateHot, ClassifyActivity(3, 1, 6))
	assert.Equal(t, model.StateWarm, ClassifyActivity(300, 100, 2)) // 3 + 1
	assert.Equal(t, model.StateWarm, ClassifyActivity(200, 100, 2)) // 2 + 1
	assert.Equal(t, model.StateCold, ClassifyActivity(100, 100, 2))
	assert.Equal(t, model.StateFrozen, ClassifyActivity(10, 100, 0))
}
