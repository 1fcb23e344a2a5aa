package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rackledger/inventory/internal/core/domain"
	"github.com/rackledger/inventory/internal/core/ports"
)

const (
	historyCollection  = "history"
	countersCollection = "counters"
)

// HistoryRepository keeps the audit log in MongoDB. Row ids come from a
// counter document so they stay numeric like the SQL store.
type HistoryRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

var _ ports.HistoryRepository = (*HistoryRepository)(nil)

func NewHistoryRepository(db *mongo.Database) *HistoryRepository {
	return &HistoryRepository{
		coll:     db.Collection(historyCollection),
		counters: db.Collection(countersCollection),
	}
}

type historyDoc struct {
	ID         uint64    `bson:"_id"`
	TargetID   uint      `bson:"target_id"`
	TargetType string    `bson:"target_type"`
	User       string    `bson:"user"`
	Action     string    `bson:"action"`
	Changes    string    `bson:"changes"`
	Timestamp  time.Time `bson:"timestamp"`
}

// EnsureIndexes creates the lookup index used by List.
func (r *HistoryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "target_type", Value: 1},
			{Key: "target_id", Value: 1},
			{Key: "timestamp", Value: -1},
		},
		Options: options.Index().SetName("target_timestamp"),
	})
	if err != nil {
		return fmt.Errorf("create history index: %w", err)
	}
	return nil
}

func (r *HistoryRepository) nextID(ctx context.Context) (uint64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": historyCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next history id: %w", err)
	}
	return uint64(counter.Seq), nil
}

func (r *HistoryRepository) Append(ctx context.Context, entry *domain.History) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	doc := historyDoc{
		ID:         id,
		TargetID:   entry.TargetID,
		TargetType: string(entry.TargetType),
		User:       entry.User,
		Action:     entry.Action,
		Changes:    entry.Changes,
		Timestamp:  entry.Timestamp.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	entry.ID = id
	return nil
}

func (r *HistoryRepository) List(ctx context.Context, targetType domain.TargetType, targetID uint) ([]domain.History, error) {
	cur, err := r.coll.Find(ctx,
		bson.M{"target_type": string(targetType), "target_id": targetID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find history: %w", err)
	}
	defer cur.Close(ctx)

	var docs []historyDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}

	rows := make([]domain.History, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, domain.History{
			ID:         d.ID,
			TargetID:   d.TargetID,
			TargetType: domain.TargetType(d.TargetType),
			User:       d.User,
			Action:     d.Action,
			Changes:    d.Changes,
			Timestamp:  d.Timestamp.UTC(),
		})
	}
	return rows, nil
}
