package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/micellaneous/accounts-api/internal/core/domain"
	"github.com/micellaneous/accounts-api/internal/core/ports"
)

const (
	usersCollection    = "users"
	countersCollection = "counters"
)

// UserRepository implements ports.UserRepository on MongoDB. Integer IDs are
// allocated from a counters document so they stay small, unique and
// monotonic, matching the account model's immutable numeric identifier.
type UserRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		coll:     db.Collection(usersCollection),
		counters: db.Collection(countersCollection),
	}
}

// EnsureIndexes creates the unique username index. Uniqueness is enforced
// here, at write time, not in the service layer.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create username index: %w", err)
	}
	return nil
}

type userDoc struct {
	ID           int    `bson:"_id"`
	Username     string `bson:"username"`
	PasswordHash string `bson:"password_hash"`
	Name         string `bson:"name"`
	Surname      string `bson:"surname"`
	Email        string `bson:"email,omitempty"`
	Role         string `bson:"role"`
	Active       bool   `bson:"active"`
	ValidFrom    int64  `bson:"valid_from"`
	ValidUntil   int64  `bson:"valid_until"`
}

func toDoc(u *domain.User) userDoc {
	return userDoc{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Surname:      u.Surname,
		Email:        u.Email,
		Role:         u.Role,
		Active:       u.Active,
		ValidFrom:    u.ValidFrom.Unix(),
		ValidUntil:   u.ValidUntil.Unix(),
	}
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
		Surname:      d.Surname,
		Email:        d.Email,
		Role:         d.Role,
		Active:       d.Active,
		ValidFrom:    time.Unix(d.ValidFrom, 0).UTC(),
		ValidUntil:   time.Unix(d.ValidUntil, 0).UTC(),
	}
}

// nextID atomically increments and returns the user id sequence.
func (r *UserRepository) nextID(ctx context.Context) (int, error) {
	var out struct {
		Seq int `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": usersCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return out.Seq, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return doc.toDomain(), nil
}

// Save inserts the user when it has no id yet, otherwise replaces the stored
// document. The unique index turns duplicate usernames into ErrUserExists.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	saved := *user

	if saved.ID == 0 {
		id, err := r.nextID(ctx)
		if err != nil {
			return nil, err
		}
		saved.ID = id

		if _, err := r.coll.InsertOne(ctx, toDoc(&saved)); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrUserExists
			}
			return nil, fmt.Errorf("insert user: %w", err)
		}
		return &saved, nil
	}

	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": saved.ID}, toDoc(&saved))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &saved, nil
}

func (r *UserRepository) DeleteByID(ctx context.Context, id int) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, pageIndex, pageSize int) (*ports.Page, error) {
	if pageIndex < 0 {
		pageIndex = 0
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	total, err := r.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(pageIndex * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]*domain.User, 0, pageSize)
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		items = append(items, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return &ports.Page{
		Items:      items,
		PageIndex:  pageIndex,
		PageSize:   pageSize,
		TotalItems: total,
	}, nil
}

func (r *UserRepository) CountAll(ctx context.Context) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}
