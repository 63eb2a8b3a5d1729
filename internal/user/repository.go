package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/roomiesplit/roomiesplit/internal/database"
)

// Store defines the interface for user persistence. Lookups that miss
// return (nil, nil) rather than an error.
type Store interface {
	Insert(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id bson.ObjectID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByIDs(ctx context.Context, ids []bson.ObjectID) ([]*User, error)
	FindByEmails(ctx context.Context, emails []string) ([]*User, error)
}

// Repository handles user persistence in MongoDB
type Repository struct {
	col *mongo.Collection
}

var _ Store = (*Repository)(nil)

// NewRepository creates a new user repository
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{col: db.Collection(database.ColUsers)}
}

// Insert persists a new user and populates its ID and CreatedAt
func (r *Repository) Insert(ctx context.Context, u *User) error {
	u.ID = bson.NewObjectID()
	u.CreatedAt = time.Now().UTC()

	if _, err := r.col.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their ID
func (r *Repository) GetByID(ctx context.Context, id bson.ObjectID) (*User, error) {
	u := &User{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByEmail retrieves a user by their email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	u := &User{}
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// GetByIDs retrieves all users matching the given IDs. IDs without a
// matching user are simply absent from the result.
func (r *Repository) GetByIDs(ctx context.Context, ids []bson.ObjectID) ([]*User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	var users []*User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// FindByEmails retrieves all users matching the given emails. Unknown
// emails are simply absent from the result.
func (r *Repository) FindByEmails(ctx context.Context, emails []string) ([]*User, error) {
	if len(emails) == 0 {
		return nil, nil
	}

	cur, err := r.col.Find(ctx, bson.M{"email": bson.M{"$in": emails}})
	if err != nil {
		return nil, fmt.Errorf("failed to find users by email: %w", err)
	}

	var users []*User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}
