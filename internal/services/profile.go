package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/peptide-insights-backend/internal/data/db"
	"github.com/yungbote/peptide-insights-backend/internal/data/repos"
	types "github.com/yungbote/peptide-insights-backend/internal/domain"
	"github.com/yungbote/peptide-insights-backend/internal/domain/user"
	pkgerrors "github.com/yungbote/peptide-insights-backend/internal/pkg/errors"
	"github.com/yungbote/peptide-insights-backend/internal/platform/ctxutil"
	"github.com/yungbote/peptide-insights-backend/internal/platform/dbctx"
	"github.com/yungbote/peptide-insights-backend/internal/platform/logger"
)

// ProfileInput is a partial update. Nil fields keep their stored value.
type ProfileInput struct {
	Demographics *DemographicsInput `json:"demographics"`
	Preferences  *PreferencesInput  `json:"preferences"`
}

type DemographicsInput struct {
	Age               *int      `json:"age"`
	Gender            *string   `json:"gender"`
	Weight            *float64  `json:"weight"`
	Height            *float64  `json:"height"`
	ActivityLevel     *string   `json:"activityLevel"`
	FitnessGoals      *[]string `json:"fitnessGoals"`
	MedicalConditions *[]string `json:"medicalConditions"`
	Allergies         *[]string `json:"allergies"`
}

type PreferencesInput struct {
	Units         *UnitsInput         `json:"units"`
	Privacy       *PrivacyInput       `json:"privacy"`
	Notifications *NotificationsInput `json:"notifications"`
}

type UnitsInput struct {
	Weight *string `json:"weight"`
	Height *string `json:"height"`
}

type PrivacyInput struct {
	ShareAge    *bool `json:"shareAge"`
	ShareGender *bool `json:"shareGender"`
	ShareWeight *bool `json:"shareWeight"`
	ShareHeight *bool `json:"shareHeight"`
}

type NotificationsInput struct {
	Email          *bool `json:"email"`
	NewExperiences *bool `json:"newExperiences"`
	WeeklyDigest   *bool `json:"weeklyDigest"`
}

type ProfileService interface {
	Get(ctx context.Context) (*types.UserProfile, error)
	Update(ctx context.Context, in ProfileInput) (*types.UserProfile, error)
}

type profileService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.ProfileRepo
}

func NewProfileService(db *gorm.DB, log *logger.Logger, profileRepo repos.ProfileRepo) ProfileService {
	return &profileService{
		db:          db,
		log:         log.With("service", "ProfileService"),
		profileRepo: profileRepo,
	}
}

// Get returns the caller's profile, or the defaults when none was saved.
func (s *profileService) Get(ctx context.Context) (*types.UserProfile, error) {
	ctx = ctxutil.Default(ctx)
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	p, err := s.profileRepo.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, db.MapError("get profile", err)
	}
	if p == nil {
		return user.DefaultProfile(userID), nil
	}
	return p, nil
}

func (s *profileService) Update(ctx context.Context, in ProfileInput) (*types.UserProfile, error) {
	ctx = ctxutil.Default(ctx)
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	var out *types.UserProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		p, err := s.profileRepo.GetByUserID(inner, userID)
		if err != nil {
			return err
		}
		if p == nil {
			p = user.DefaultProfile(userID)
		}
		applyProfileInput(p, in)
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%s: %w", err.Error(), pkgerrors.ErrInvalidArgument)
		}
		if err := s.profileRepo.Upsert(inner, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, db.MapError("update profile", err)
	}
	s.log.WithContext(ctx).Debug("profile updated")
	return out, nil
}

func applyProfileInput(p *types.UserProfile, in ProfileInput) {
	if d := in.Demographics; d != nil {
		if d.Age != nil {
			p.Demographics.Age = d.Age
		}
		if d.Gender != nil {
			p.Demographics.Gender = normalizeEnum(*d.Gender)
		}
		if d.Weight != nil {
			p.Demographics.Weight = d.Weight
		}
		if d.Height != nil {
			p.Demographics.Height = d.Height
		}
		if d.ActivityLevel != nil {
			p.Demographics.ActivityLevel = normalizeEnum(*d.ActivityLevel)
		}
		if d.FitnessGoals != nil {
			goals := cleanList(*d.FitnessGoals)
			for i := range goals {
				goals[i] = normalizeEnum(goals[i])
			}
			p.Demographics.FitnessGoals = goals
		}
		if d.MedicalConditions != nil {
			p.Demographics.MedicalConditions = cleanList(*d.MedicalConditions)
		}
		if d.Allergies != nil {
			p.Demographics.Allergies = cleanList(*d.Allergies)
		}
	}
	pr := in.Preferences
	if pr == nil {
		return
	}
	if u := pr.Units; u != nil {
		if u.Weight != nil {
			p.Preferences.Units.Weight = normalizeEnum(*u.Weight)
		}
		if u.Height != nil {
			p.Preferences.Units.Height = normalizeEnum(*u.Height)
		}
	}
	if v := pr.Privacy; v != nil {
		setBool(&p.Preferences.Privacy.ShareAge, v.ShareAge)
		setBool(&p.Preferences.Privacy.ShareGender, v.ShareGender)
		setBool(&p.Preferences.Privacy.ShareWeight, v.ShareWeight)
		setBool(&p.Preferences.Privacy.ShareHeight, v.ShareHeight)
	}
	if n := pr.Notifications; n != nil {
		setBool(&p.Preferences.Notifications.Email, n.Email)
		setBool(&p.Preferences.Notifications.NewExperiences, n.NewExperiences)
		setBool(&p.Preferences.Notifications.WeeklyDigest, n.WeeklyDigest)
	}
}

func normalizeEnum(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
