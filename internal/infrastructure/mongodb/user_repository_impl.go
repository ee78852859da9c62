package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"grocerylist-api/internal/domain/entity"
	"grocerylist-api/internal/domain/repository"
)

const usersCollection = "users"

// UserRepository is the MongoDB implementation of repository.UserRepository.
type UserRepository struct {
	c *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{c: db.Collection(usersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	now := time.Now().UTC()
	u.CreatedAt = now
	u.LastUserEditOn = now

	if _, err := r.c.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *UserRepository) FindByConfirmationID(ctx context.Context, confirmationID primitive.ObjectID) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"account_confirmation._id": confirmationID})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var u entity.User
	if err := r.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ClearConfirmation(ctx context.Context, userID primitive.ObjectID) error {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$unset": bson.M{"account_confirmation": ""},
			"$set":   bson.M{"last_user_edit_on": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) PushLocalSession(ctx context.Context, userID primitive.ObjectID, s entity.LocalSession) error {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"local_sessions": s},
			"$set":  bson.M{"last_user_edit_on": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) FindExpiredUnconfirmed(ctx context.Context, now time.Time) ([]entity.User, error) {
	cur, err := r.c.Find(ctx, bson.M{
		"account_confirmation.expires_on": bson.M{"$lt": now.UTC()},
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var users []entity.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
