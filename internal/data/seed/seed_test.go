package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/peptide-insights-backend/internal/domain"
	"github.com/yungbote/peptide-insights-backend/internal/domain/catalog"
)

func TestBundledCatalog(t *testing.T) {
	peptides, err := Peptides()
	require.NoError(t, err)
	require.Len(t, peptides, 6)

	bpc := peptides[0]
	assert.Equal(t, "BPC-157", bpc.Name)
	assert.Equal(t, "Healing & Recovery", bpc.Category)
	assert.Equal(t, 95, bpc.Popularity)
	assert.Equal(t, []string{"TB-500", "Ipamorelin"}, []string(bpc.CommonStacks))
	assert.Equal(t, "300-500 mcg", bpc.DosageRanges.Medium)
	assert.Equal(t, "1-3 days", bpc.Timeline.Onset)
	assert.Contains(t, bpc.DetailedDescription, "pentadecapeptide")

	again, err := Peptides()
	require.NoError(t, err)
	assert.NotSame(t, peptides[0], again[0])
}

func TestParseRejectsBadEntries(t *testing.T) {
	_, err := Parse([]byte("peptides:\n  - name: X\n    category: Snake Oil\n"))
	require.Error(t, err)

	_, err = Parse([]byte("peptides:\n  - category: Anti-Aging\n"))
	require.Error(t, err)

	_, err = Parse([]byte("peptides:\n  - {name: A, category: Anti-Aging}\n  - {name: A, category: Anti-Aging}\n"))
	require.Error(t, err)

	_, err = Parse([]byte("peptides: [[["))
	require.Error(t, err)
}

func TestBundledEffects(t *testing.T) {
	effects, err := Effects()
	require.NoError(t, err)
	require.Len(t, effects, 41)

	byName := map[string]*types.Effect{}
	positive := 0
	for _, e := range effects {
		byName[e.Name] = e
		if e.Type == catalog.EffectPositive {
			positive++
			assert.Empty(t, e.Severity, e.Name)
		} else {
			assert.NotEmpty(t, e.Severity, e.Name)
		}
	}
	assert.Equal(t, 25, positive)

	healing := byName["Faster healing"]
	require.NotNil(t, healing)
	assert.Equal(t, "Recovery", healing.Category)
	assert.Equal(t, "very_common", healing.Frequency)
	assert.True(t, healing.IsCommon)

	arrhythmia := byName["Cardiac arrhythmia"]
	require.NotNil(t, arrhythmia)
	assert.Equal(t, "severe", arrhythmia.Severity)
	assert.Equal(t, "rare", arrhythmia.Frequency)
	assert.False(t, arrhythmia.IsCommon)

	assert.Equal(t, "Redness, swelling, or discomfort at injection site", byName["Injection site irritation"].Description)
}

func TestParseEffectsRejectsBadEntries(t *testing.T) {
	cases := map[string]string{
		"unknown type":      "effects:\n  - {name: X, type: neutral, category: Sleep}\n",
		"missing name":      "effects:\n  - {type: positive, category: Sleep}\n",
		"missing category":  "effects:\n  - {name: X, type: positive}\n",
		"unknown severity":  "effects:\n  - {name: X, type: negative, category: Side Effect, severity: lethal}\n",
		"unknown frequency": "effects:\n  - {name: X, type: positive, category: Sleep, frequency: always}\n",
		"duplicate name":    "effects:\n  - {name: X, type: positive, category: Sleep}\n  - {name: x, type: positive, category: Sleep}\n",
		"malformed":         "effects: [[[",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseEffects([]byte(doc))
			require.Error(t, err)
		})
	}

	effects, err := ParseEffects([]byte("effects:\n  - {name: ' Calm ', type: Positive, category: Mental/Cognitive}\n"))
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.Equal(t, "Calm", effects[0].Name)
	assert.Equal(t, catalog.EffectPositive, effects[0].Type)
	assert.Equal(t, "common", effects[0].Frequency)
}
