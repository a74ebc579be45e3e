package notes

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNoteNotFound = errors.New("note not found")
)

const noteSequence = "notes"

type Repo struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{
		coll:     db.Collection("notes"),
		counters: db.Collection("counters"),
	}
}

// EnsureIndexes creates necessary indexes for the notes collection
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "categories", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "archived", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "tag", Value: 1}},
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// nextID hands out increasing integer ids from the counters collection.
func (r *Repo) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": noteSequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next note id: %w", err)
	}
	return counter.Seq, nil
}

// Insert assigns an id to n and stores it
func (r *Repo) Insert(ctx context.Context, n *Note) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	n.ID = id
	if n.Categories == nil {
		n.Categories = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// FindByID retrieves a note by its ID
func (r *Repo) FindByID(ctx context.Context, id int64) (*Note, error) {
	var note Note
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find note %d: %w", id, err)
	}
	return &note, nil
}

// Replace overwrites the stored note with the same id
func (r *Repo) Replace(ctx context.Context, n *Note) error {
	if n.Categories == nil {
		n.Categories = []string{}
	}
	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": n.ID}, n)
	if err != nil {
		return fmt.Errorf("replace note %d: %w", n.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// List retrieves notes matching the query, oldest first
func (r *Repo) List(ctx context.Context, q ListQuery) ([]*Note, error) {
	filter := bson.M{}
	if q.Category != "" {
		filter["categories"] = q.Category
	}
	if q.Archived != nil {
		filter["archived"] = *q.Archived
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer cursor.Close(ctx)

	notes := []*Note{}
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	return notes, nil
}

// ListCategories returns all category labels with the number of notes using them
func (r *Repo) ListCategories(ctx context.Context) ([]*Category, error) {
	pipeline := []bson.M{
		{"$unwind": "$categories"},
		{
			"$group": bson.M{
				"_id":   "$categories",
				"count": bson.M{"$sum": 1},
			},
		},
		{"$sort": bson.M{"_id": 1}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories := []*Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return categories, nil
}

// Delete removes a note by ID
func (r *Repo) Delete(ctx context.Context, id int64) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNoteNotFound
	}
	return nil
}
