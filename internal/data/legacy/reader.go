package legacy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	types "github.com/yungbote/peptide-insights-backend/internal/domain"
	"github.com/yungbote/peptide-insights-backend/internal/platform/ctxutil"
	"github.com/yungbote/peptide-insights-backend/internal/platform/dbctx"
	"github.com/yungbote/peptide-insights-backend/internal/platform/logger"
)

type Options struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Reader serves analytics reads and imports from the legacy MongoDB
// database. It never writes.
type Reader struct {
	client *mongo.Client
	db     *mongo.Database
	log    *logger.Logger
}

func Connect(ctx context.Context, log *logger.Logger, opts Options) (*Reader, error) {
	if opts.URI == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}
	if opts.Database == "" {
		return nil, fmt.Errorf("mongo database is required")
	}
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetReadPreference(readpref.SecondaryPreferred())

	client, err := mongo.Connect(ctxutil.Default(ctx), clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	r := &Reader{
		client: client,
		db:     client.Database(opts.Database),
		log:    log.With("component", "LegacyMongoReader", "database", opts.Database),
	}
	pingCtx, cancel := context.WithTimeout(ctxutil.Default(ctx), timeout)
	defer cancel()
	if err := r.Ping(pingCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	r.log.Info("connected to legacy mongo")
	return r, nil
}

func (r *Reader) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctxutil.Default(ctx), readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	return nil
}

func (r *Reader) Close(ctx context.Context) error {
	return r.client.Disconnect(ctxutil.Default(ctx))
}

// FindPeptides returns catalog entries whose derived UUID is in ids, or the
// whole catalog when ids is empty. UUIDs cannot be mapped back to ObjectIDs,
// so the (small) collection is scanned and filtered here.
func (r *Reader) FindPeptides(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Peptide, error) {
	ctx := ctxutil.Default(dbc.Ctx)
	cur, err := r.db.Collection(PeptideCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find legacy peptides: %w", err)
	}
	defer cur.Close(ctx)

	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	out := make([]*types.Peptide, 0)
	for cur.Next(ctx) {
		var d peptideDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode legacy peptide: %w", err)
		}
		p := d.toDomain()
		if len(wanted) > 0 && !wanted[p.ID] {
			continue
		}
		out = append(out, p)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate legacy peptides: %w", err)
	}
	return out, nil
}

// FindActiveExperiences implements the analytics read over the legacy
// experiences collection.
func (r *Reader) FindActiveExperiences(dbc dbctx.Context, filter types.ExperienceFilter) ([]*types.Experience, error) {
	ctx := ctxutil.Default(dbc.Ctx)
	var oids []primitive.ObjectID
	if len(filter.PeptideIDs) > 0 {
		var err error
		oids, err = r.peptideObjectIDs(ctx, filter.PeptideIDs)
		if err != nil {
			return nil, err
		}
		if len(oids) == 0 {
			return []*types.Experience{}, nil
		}
	}
	out := make([]*types.Experience, 0)
	err := r.scanExperiences(ctx, experienceQuery(filter, oids, true), func(e *types.Experience) error {
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EachExperience streams every experience created at or after since,
// inactive ones included, oldest first.
func (r *Reader) EachExperience(ctx context.Context, since time.Time, fn func(*types.Experience) error) error {
	return r.scanExperiences(ctxutil.Default(ctx), experienceQuery(types.ExperienceFilter{CreatedFrom: since}, nil, false), fn)
}

func (r *Reader) scanExperiences(ctx context.Context, query bson.M, fn func(*types.Experience) error) error {
	cur, err := r.db.Collection(ExperienceCollection).Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return fmt.Errorf("find legacy experiences: %w", err)
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var d experienceDoc
		if err := cur.Decode(&d); err != nil {
			return fmt.Errorf("decode legacy experience: %w", err)
		}
		if err := fn(d.toDomain()); err != nil {
			return err
		}
	}
	if err := cur.Err(); err != nil {
		return fmt.Errorf("iterate legacy experiences: %w", err)
	}
	return nil
}

// peptideObjectIDs resolves UUIDs to the ObjectIDs experiences reference,
// including peptides no longer in the catalog.
func (r *Reader) peptideObjectIDs(ctx context.Context, ids []uuid.UUID) ([]primitive.ObjectID, error) {
	raw, err := r.db.Collection(ExperienceCollection).Distinct(ctx, "peptideId", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list legacy peptide ids: %w", err)
	}
	candidates := make([]primitive.ObjectID, 0, len(raw))
	for _, v := range raw {
		if oid, ok := v.(primitive.ObjectID); ok {
			candidates = append(candidates, oid)
		}
	}
	return matchObjectIDs(ids, candidates), nil
}

func matchObjectIDs(ids []uuid.UUID, candidates []primitive.ObjectID) []primitive.ObjectID {
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	out := make([]primitive.ObjectID, 0)
	for _, oid := range candidates {
		if wanted[IDFor(oid)] {
			out = append(out, oid)
		}
	}
	return out
}

// experienceQuery builds the find filter. A missing isActive counts as
// active.
func experienceQuery(filter types.ExperienceFilter, peptideOIDs []primitive.ObjectID, activeOnly bool) bson.M {
	q := bson.M{}
	if activeOnly {
		q["isActive"] = bson.M{"$ne": false}
	}
	if len(peptideOIDs) > 0 {
		q["peptideId"] = bson.M{"$in": peptideOIDs}
	}
	created := bson.M{}
	if !filter.CreatedFrom.IsZero() {
		created["$gte"] = filter.CreatedFrom.UTC()
	}
	if !filter.CreatedTo.IsZero() {
		created["$lt"] = filter.CreatedTo.UTC()
	}
	if len(created) > 0 {
		q["createdAt"] = created
	}
	return q
}
