package experience

import "fmt"

type OutcomeKey string

const (
	OutcomeEnergy      OutcomeKey = "energy"
	OutcomeSleep       OutcomeKey = "sleep"
	OutcomeMood        OutcomeKey = "mood"
	OutcomePerformance OutcomeKey = "performance"
	OutcomeRecovery    OutcomeKey = "recovery"
	OutcomeSideEffects OutcomeKey = "sideEffects"
)

// OutcomeKeys lists every outcome metric in display order.
var OutcomeKeys = []OutcomeKey{
	OutcomeEnergy,
	OutcomeSleep,
	OutcomeMood,
	OutcomePerformance,
	OutcomeRecovery,
	OutcomeSideEffects,
}

const (
	MinRating = 1
	MaxRating = 10
)

// Outcomes holds the 1-10 ratings of one experience. A value outside
// [MinRating, MaxRating], zero included, means the metric was not rated.
type Outcomes struct {
	Energy      int `gorm:"column:energy;not null;default:0" json:"energy" bson:"energy"`
	Sleep       int `gorm:"column:sleep;not null;default:0" json:"sleep" bson:"sleep"`
	Mood        int `gorm:"column:mood;not null;default:0" json:"mood" bson:"mood"`
	Performance int `gorm:"column:performance;not null;default:0" json:"performance" bson:"performance"`
	Recovery    int `gorm:"column:recovery;not null;default:0" json:"recovery" bson:"recovery"`
	SideEffects int `gorm:"column:side_effects;not null;default:0" json:"sideEffects" bson:"sideEffects"`
}

func (o Outcomes) raw(k OutcomeKey) int {
	switch k {
	case OutcomeEnergy:
		return o.Energy
	case OutcomeSleep:
		return o.Sleep
	case OutcomeMood:
		return o.Mood
	case OutcomePerformance:
		return o.Performance
	case OutcomeRecovery:
		return o.Recovery
	case OutcomeSideEffects:
		return o.SideEffects
	}
	return 0
}

// Value returns the rating for k and whether it was rated.
func (o Outcomes) Value(k OutcomeKey) (int, bool) {
	v := o.raw(k)
	if v < MinRating || v > MaxRating {
		return 0, false
	}
	return v, true
}

// Mean is the mean of the rated metrics. ok is false when nothing was rated.
func (o Outcomes) Mean() (mean float64, ok bool) {
	sum, n := 0, 0
	for _, k := range OutcomeKeys {
		if v, rated := o.Value(k); rated {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

// Validate requires every metric to be rated. Submissions use it; stored
// legacy rows may still carry gaps.
func (o Outcomes) Validate() error {
	for _, k := range OutcomeKeys {
		if _, ok := o.Value(k); !ok {
			return fmt.Errorf("outcome %s must be between %d and %d, got %d", k, MinRating, MaxRating, o.raw(k))
		}
	}
	return nil
}
