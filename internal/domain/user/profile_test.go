package user

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestDefaultProfileIsValid(t *testing.T) {
	p := DefaultProfile(uuid.New())
	assert.NoError(t, p.Validate())
	assert.Equal(t, "kg", p.Preferences.Units.Weight)
	assert.True(t, p.Preferences.Privacy.ShareAge)
	assert.False(t, p.Preferences.Privacy.ShareWeight)
	assert.True(t, p.Preferences.Notifications.WeeklyDigest)
	assert.False(t, p.Preferences.Notifications.NewExperiences)
}

func TestProfileValidate(t *testing.T) {
	age := func(v int) *int { return &v }
	num := func(v float64) *float64 { return &v }
	cases := map[string]func(p *Profile){
		"age too low":       func(p *Profile) { p.Demographics.Age = age(17) },
		"age too high":      func(p *Profile) { p.Demographics.Age = age(121) },
		"weight too low":    func(p *Profile) { p.Demographics.Weight = num(29.9) },
		"height too high":   func(p *Profile) { p.Demographics.Height = num(251) },
		"unknown gender":    func(p *Profile) { p.Demographics.Gender = "robot" },
		"unknown activity":  func(p *Profile) { p.Demographics.ActivityLevel = "couch" },
		"unknown goal":      func(p *Profile) { p.Demographics.FitnessGoals = datatypes.JSONSlice[string]{"strength", "fame"} },
		"unknown weight u.": func(p *Profile) { p.Preferences.Units.Weight = "stone" },
		"blank height unit": func(p *Profile) { p.Preferences.Units.Height = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := DefaultProfile(uuid.New())
			mutate(p)
			assert.Error(t, p.Validate())
		})
	}

	ok := DefaultProfile(uuid.New())
	ok.Demographics.Age = age(18)
	ok.Demographics.Weight = num(500)
	ok.Demographics.Height = num(100)
	ok.Demographics.Gender = "prefer-not-to-say"
	ok.Demographics.FitnessGoals = datatypes.JSONSlice[string]{"recovery", "anti-aging"}
	assert.NoError(t, ok.Validate())
}
