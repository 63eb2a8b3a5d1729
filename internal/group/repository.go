package group

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/roomiesplit/roomiesplit/internal/database"
)

// ErrStaleGroup is returned by Save when the aggregate changed since it was
// read. Callers should re-read and retry, or surface a conflict.
var ErrStaleGroup = errors.New("group was modified concurrently")

// Store defines the interface for group aggregate persistence. GetByID
// returns (nil, nil) when the group does not exist.
type Store interface {
	Insert(ctx context.Context, g *Group) error
	GetByID(ctx context.Context, id bson.ObjectID) (*Group, error)
	ListByMember(ctx context.Context, userID bson.ObjectID) ([]*Group, error)
	Save(ctx context.Context, g *Group) error
}

// Repository handles group aggregate persistence in MongoDB
type Repository struct {
	col *mongo.Collection
}

var _ Store = (*Repository)(nil)

// NewRepository creates a new group repository
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{col: db.Collection(database.ColGroups)}
}

// Insert persists a new group aggregate, populating ID, Version and
// CreatedAt.
func (r *Repository) Insert(ctx context.Context, g *Group) error {
	g.ID = bson.NewObjectID()
	g.Version = 1
	g.CreatedAt = time.Now().UTC()
	if g.Expenses == nil {
		g.Expenses = []Expense{}
	}

	if _, err := r.col.InsertOne(ctx, g); err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

// GetByID retrieves a group aggregate by its ID
func (r *Repository) GetByID(ctx context.Context, id bson.ObjectID) (*Group, error) {
	g := &Group{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(g)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

// ListByMember retrieves every group that has userID on its roster
func (r *Repository) ListByMember(ctx context.Context, userID bson.ObjectID) ([]*Group, error) {
	cur, err := r.col.Find(ctx, bson.M{"members.user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var groups []*Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode groups: %w", err)
	}
	return groups, nil
}

// Save writes the whole aggregate back with a compare-and-swap on the
// version read earlier. If another writer saved the group in between, the
// replace matches nothing and Save returns ErrStaleGroup.
func (r *Repository) Save(ctx context.Context, g *Group) error {
	prev := g.Version
	g.Version = prev + 1

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": g.ID, "version": prev}, g)
	if err != nil {
		g.Version = prev
		return fmt.Errorf("failed to save group: %w", err)
	}
	if res.MatchedCount == 0 {
		g.Version = prev
		return ErrStaleGroup
	}
	return nil
}
