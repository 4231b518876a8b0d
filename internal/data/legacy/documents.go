package legacy

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/datatypes"

	types "github.com/yungbote/peptide-insights-backend/internal/domain"
)

const (
	PeptideCollection    = "peptides"
	ExperienceCollection = "experiences"
)

// Namespace seeds the UUIDs derived from legacy ObjectIDs. Changing it
// re-keys every imported row.
var Namespace = uuid.MustParse("6f1d0c1e-4a8b-5d3e-9c2f-7b5a1e0d3c42")

// IDFor maps a legacy ObjectID to a stable UUID. The zero ObjectID maps to
// uuid.Nil.
func IDFor(oid primitive.ObjectID) uuid.UUID {
	if oid.IsZero() {
		return uuid.Nil
	}
	return uuid.NewSHA1(Namespace, oid[:])
}

// Numbers are float64 because the legacy writer stored plain JS numbers,
// which arrive as either int32 or double.

type peptideDoc struct {
	ID                  primitive.ObjectID `bson:"_id"`
	Name                string             `bson:"name"`
	Category            string             `bson:"category"`
	Description         string             `bson:"description"`
	DetailedDescription string             `bson:"detailedDescription"`
	Mechanism           string             `bson:"mechanism"`
	CommonDosage        string             `bson:"commonDosage"`
	CommonFrequency     string             `bson:"commonFrequency"`
	CommonEffects       []string           `bson:"commonEffects"`
	SideEffects         []string           `bson:"sideEffects"`
	CommonStacks        []string           `bson:"commonStacks"`
	Popularity          float64            `bson:"popularity"`
	DosageRanges        struct {
		Low    string `bson:"low"`
		Medium string `bson:"medium"`
		High   string `bson:"high"`
	} `bson:"dosageRanges"`
	Timeline struct {
		Onset    string `bson:"onset"`
		Peak     string `bson:"peak"`
		Duration string `bson:"duration"`
	} `bson:"timeline"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type outcomesDoc struct {
	Energy      float64 `bson:"energy"`
	Sleep       float64 `bson:"sleep"`
	Mood        float64 `bson:"mood"`
	Performance float64 `bson:"performance"`
	Recovery    float64 `bson:"recovery"`
	SideEffects float64 `bson:"sideEffects"`
}

type sourcingDoc struct {
	VendorURL        string   `bson:"vendorUrl"`
	BatchID          string   `bson:"batchId"`
	PurityPercentage *float64 `bson:"purityPercentage"`
	VolumeMl         *float64 `bson:"volumeMl"`
}

type experienceDoc struct {
	ID                    primitive.ObjectID `bson:"_id"`
	UserID                primitive.ObjectID `bson:"userId"`
	PeptideID             primitive.ObjectID `bson:"peptideId"`
	PeptideName           string             `bson:"peptideName"`
	TrackingID            string             `bson:"trackingId"`
	Dosage                string             `bson:"dosage"`
	Frequency             string             `bson:"frequency"`
	Duration              float64            `bson:"duration"`
	RouteOfAdministration string             `bson:"routeOfAdministration"`
	PrimaryPurpose        []string           `bson:"primaryPurpose"`
	Demographics          types.Demographics `bson:"demographics"`
	Outcomes              outcomesDoc        `bson:"outcomes"`
	Effects               []string           `bson:"effects"`
	Timeline              string             `bson:"timeline"`
	Story                 string             `bson:"story"`
	Stack                 []string           `bson:"stack"`
	Sourcing              sourcingDoc        `bson:"sourcing"`
	HelpfulVotes          float64            `bson:"helpfulVotes"`
	TotalVotes            float64            `bson:"totalVotes"`
	IsActive              *bool              `bson:"isActive"`
	CreatedAt             time.Time          `bson:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt"`
}

func (d *peptideDoc) toDomain() *types.Peptide {
	p := &types.Peptide{
		ID:                  IDFor(d.ID),
		Name:                d.Name,
		Category:            d.Category,
		Description:         d.Description,
		DetailedDescription: d.DetailedDescription,
		Mechanism:           d.Mechanism,
		CommonDosage:        d.CommonDosage,
		CommonFrequency:     d.CommonFrequency,
		CommonEffects:       list(d.CommonEffects),
		SideEffects:         list(d.SideEffects),
		CommonStacks:        list(d.CommonStacks),
		Popularity:          toInt(d.Popularity),
		DosageRanges: types.DosageRanges{
			Low:    d.DosageRanges.Low,
			Medium: d.DosageRanges.Medium,
			High:   d.DosageRanges.High,
		},
		Timeline: types.PeptideTimeline{
			Onset:    d.Timeline.Onset,
			Peak:     d.Timeline.Peak,
			Duration: d.Timeline.Duration,
		},
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = d.ID.Timestamp().UTC()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	p.Normalize()
	return p
}

func (d *experienceDoc) toDomain() *types.Experience {
	e := &types.Experience{
		ID:                    IDFor(d.ID),
		UserID:                IDFor(d.UserID),
		PeptideID:             IDFor(d.PeptideID),
		PeptideName:           strings.TrimSpace(d.PeptideName),
		TrackingID:            strings.ToUpper(strings.TrimSpace(d.TrackingID)),
		Dosage:                d.Dosage,
		Frequency:             d.Frequency,
		Duration:              toInt(d.Duration),
		RouteOfAdministration: d.RouteOfAdministration,
		PrimaryPurpose:        list(d.PrimaryPurpose),
		Demographics:          d.Demographics,
		Outcomes: types.Outcomes{
			Energy:      toInt(d.Outcomes.Energy),
			Sleep:       toInt(d.Outcomes.Sleep),
			Mood:        toInt(d.Outcomes.Mood),
			Performance: toInt(d.Outcomes.Performance),
			Recovery:    toInt(d.Outcomes.Recovery),
			SideEffects: toInt(d.Outcomes.SideEffects),
		},
		Effects:  list(d.Effects),
		Timeline: d.Timeline,
		Story:    d.Story,
		Stack:    list(d.Stack),
		Sourcing: types.Sourcing{
			VendorURL:        d.Sourcing.VendorURL,
			BatchID:          d.Sourcing.BatchID,
			PurityPercentage: d.Sourcing.PurityPercentage,
			VolumeMl:         d.Sourcing.VolumeMl,
		},
		HelpfulVotes: toInt(d.HelpfulVotes),
		TotalVotes:   toInt(d.TotalVotes),
		// Mongoose defaulted isActive to true; documents that predate the
		// field have no value.
		IsActive:  d.IsActive == nil || *d.IsActive,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = d.ID.Timestamp().UTC()
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}
	return e
}

func toInt(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

func list(in []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
