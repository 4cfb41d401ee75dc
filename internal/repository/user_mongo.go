package repository

import (
	"context"
	"errors"

	"github.com/yshebel/customerhub/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/yshebel/customerhub/internal/errors"
)

const usersCollection = "users"

type mongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository builds mongodb-backed UserRepository
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: db.Collection(usersCollection)}
}

func (r *mongoUserRepository) Create(ctx context.Context, u *model.User) error {
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		return mongoDuplicateEmail(err, u.Email)
	}
	return nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": caseInsensitiveEq(email), "active": true})
}

func (r *mongoUserRepository) FindAll(ctx context.Context, filter ListFilter) ([]*model.User, error) {
	query := bson.M{}
	if !filter.IncludeInactive {
		query["active"] = true
	}

	if filter.Query != "" {
		contains := caseInsensitiveContains(filter.Query)
		query["$or"] = bson.A{
			bson.M{"email": contains},
			bson.M{"username": contains},
		}
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *mongoUserRepository) Update(ctx context.Context, u *model.User) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return mongoDuplicateEmail(err, u.Email)
	}

	if res.MatchedCount == 0 {
		return apperrors.NewNotFoundErr("user", u.ID)
	}
	return nil
}

func (r *mongoUserRepository) findOne(ctx context.Context, query bson.M) (*model.User, error) {
	var u model.User
	if err := r.coll.FindOne(ctx, query).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
