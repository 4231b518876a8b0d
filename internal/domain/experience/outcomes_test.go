package experience

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(v int) Outcomes {
	return Outcomes{Energy: v, Sleep: v, Mood: v, Performance: v, Recovery: v, SideEffects: v}
}

func TestOutcomesMean(t *testing.T) {
	mean, ok := uniform(10).Mean()
	require.True(t, ok)
	assert.Equal(t, 10.0, mean)

	mean, ok = Outcomes{Energy: 8, Sleep: 6}.Mean()
	require.True(t, ok)
	assert.Equal(t, 7.0, mean)

	_, ok = Outcomes{}.Mean()
	assert.False(t, ok, "nothing rated has no mean")

	// out-of-range values are treated as unrated
	mean, ok = Outcomes{Energy: 11, Sleep: 4, Mood: -1}.Mean()
	require.True(t, ok)
	assert.Equal(t, 4.0, mean)
}

func TestOutcomesValue(t *testing.T) {
	o := Outcomes{Energy: 3, SideEffects: 9}
	v, ok := o.Value(OutcomeEnergy)
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	v, ok = o.Value(OutcomeSideEffects)
	assert.True(t, ok)
	assert.Equal(t, 9, v)
	_, ok = o.Value(OutcomeMood)
	assert.False(t, ok)
	_, ok = o.Value(OutcomeKey("libido"))
	assert.False(t, ok)
}

func TestOutcomesValidate(t *testing.T) {
	require.NoError(t, uniform(1).Validate())
	require.NoError(t, uniform(10).Validate())

	o := uniform(5)
	o.Recovery = 0
	err := o.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recovery")

	o = uniform(5)
	o.SideEffects = 11
	require.Error(t, o.Validate())
}

func TestEnumHelpers(t *testing.T) {
	assert.True(t, IsValidFrequency(FrequencyTwiceWeekly))
	assert.False(t, IsValidFrequency("hourly"))
	assert.True(t, IsValidRoute(RouteNasal))
	assert.False(t, IsValidRoute("topical"))
	assert.True(t, IsValidTimeline("3-4-weeks"))
	assert.False(t, IsValidTimeline("never"))
	assert.True(t, IsValidVoteType(VoteConcerning))
	assert.False(t, IsValidVoteType("funny"))

	var e *Experience
	_, ok := e.Rating()
	assert.False(t, ok)
}
