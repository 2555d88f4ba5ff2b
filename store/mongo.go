package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/rabbikazmi/HackingDelhi/models"
)

// Collection names shared with the mobile survey backend.
const (
	collSurveys = "citizen_surveys"
	collUsers   = "users"
	collAudit   = "audit_logs"
)

// Mongo reads census records from the citizen_surveys collection the mobile
// app syncs into, adapting each survey to the canonical record shape.
type Mongo struct {
	client  *mongo.Client
	surveys *mongo.Collection
	users   *mongo.Collection
	audit   *mongo.Collection
}

func NewMongo(client *mongo.Client, dbName string) *Mongo {
	db := client.Database(dbName)
	return &Mongo{
		client:  client,
		surveys: db.Collection(collSurveys),
		users:   db.Collection(collUsers),
		audit:   db.Collection(collAudit),
	}
}

func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		m.surveys: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("survey_id_idx")},
			{Keys: bson.D{{Key: "syncedAt", Value: 1}}, Options: options.Index().SetName("survey_synced_idx")},
		},
		m.users: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("user_id_idx")},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("user_email_idx")},
		},
		m.audit: {
			{Keys: bson.D{{Key: "timestamp", Value: -1}}, Options: options.Index().SetName("audit_timestamp_idx")},
		},
	}
	for coll, idx := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll.Name(), err)
		}
	}
	return nil
}

func (m *Mongo) Backend() string { return BackendMongo }

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) findSurveys(ctx context.Context, filter bson.M, limit int) ([]models.Survey, error) {
	opts := options.Find().SetSort(bson.D{{Key: "syncedAt", Value: 1}, {Key: "id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := m.surveys.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := make([]models.Survey, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List pages through surveys until enough records match the flag filter,
// since the flag is derived rather than stored.
func (m *Mongo) List(ctx context.Context, opts ListOptions) ([]models.CensusRecord, error) {
	limit := opts.Limit
	if opts.FlagStatus != "" {
		limit = 0
	}
	surveys, err := m.findSurveys(ctx, bson.M{}, limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.CensusRecord, 0, len(surveys))
	for _, s := range surveys {
		r := RecordFromSurvey(s)
		if opts.FlagStatus != "" && r.FlagStatus != opts.FlagStatus {
			continue
		}
		out = append(out, r)
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
	}
	return out, nil
}

func (m *Mongo) Get(ctx context.Context, recordID string) (models.CensusRecord, error) {
	s, err := m.GetSurvey(ctx, recordID)
	if err != nil {
		return models.CensusRecord{}, err
	}
	return RecordFromSurvey(s), nil
}

func (m *Mongo) ByHousehold(ctx context.Context, householdID string) ([]models.CensusRecord, error) {
	out := make([]models.CensusRecord, 0)
	prefix, ok := strings.CutPrefix(householdID, "HH")
	if !ok || prefix == "" {
		return out, nil
	}
	surveys, err := m.findSurveys(ctx, bson.M{"id": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}, 0)
	if err != nil {
		return nil, err
	}
	for _, s := range surveys {
		if r := RecordFromSurvey(s); r.HouseholdID == householdID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Mongo) MarkReviewed(ctx context.Context, recordID string, rv Review) (models.CensusRecord, error) {
	res, err := m.surveys.UpdateOne(ctx, bson.M{"id": recordID}, bson.M{"$set": bson.M{
		"reviewed":      true,
		"reviewed_by":   rv.ReviewerID,
		"reviewed_at":   rv.At,
		"review_action": rv.Action,
	}})
	if err != nil {
		return models.CensusRecord{}, err
	}
	if res.MatchedCount == 0 {
		return models.CensusRecord{}, ErrNotFound
	}
	return m.Get(ctx, recordID)
}

func (m *Mongo) InsertSurvey(ctx context.Context, s models.Survey) error {
	_, err := m.surveys.InsertOne(ctx, s)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (m *Mongo) GetSurvey(ctx context.Context, id string) (models.Survey, error) {
	var s models.Survey
	err := m.surveys.FindOne(ctx, bson.M{"id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Survey{}, ErrNotFound
	}
	return s, err
}

func (m *Mongo) ListSurveys(ctx context.Context, limit int) ([]models.Survey, error) {
	return m.findSurveys(ctx, bson.M{}, limit)
}

func (m *Mongo) findUser(ctx context.Context, filter bson.M) (models.User, error) {
	var u models.User
	err := m.users.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	return u, err
}

func (m *Mongo) GetUser(ctx context.Context, userID string) (models.User, error) {
	return m.findUser(ctx, bson.M{"user_id": userID})
}

func (m *Mongo) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return m.findUser(ctx, bson.M{"email": email})
}

func (m *Mongo) CreateUser(ctx context.Context, u models.User) error {
	_, err := m.users.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (m *Mongo) UpdateUser(ctx context.Context, u models.User) error {
	res, err := m.users.ReplaceOne(ctx, bson.M{"user_id": u.UserID}, u)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) AppendAudit(ctx context.Context, e models.AuditLogEntry) error {
	_, err := m.audit.InsertOne(ctx, e)
	return err
}

func (m *Mongo) ListAudit(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := m.audit.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	out := make([]models.AuditLogEntry, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
