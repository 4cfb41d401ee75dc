package repository

import (
	"context"
	"errors"
	"regexp"

	"github.com/yshebel/customerhub/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/yshebel/customerhub/internal/errors"
)

const customersCollection = "customers"

// mongoDuplicateEmail converts duplicate key error to domain duplicate
// error, unique index enforcement is authoritative for email uniqueness
func mongoDuplicateEmail(err error, email string) error {
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.NewDuplicateErr("email", email)
	}
	return err
}

func caseInsensitiveEq(value string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(value) + "$", Options: "i"}
}

func caseInsensitiveContains(value string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
}

type mongoCustomerRepository struct {
	coll *mongo.Collection
}

// NewMongoCustomerRepository builds mongodb-backed CustomerRepository
func NewMongoCustomerRepository(db *mongo.Database) CustomerRepository {
	return &mongoCustomerRepository{coll: db.Collection(customersCollection)}
}

func (r *mongoCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return mongoDuplicateEmail(err, c.Email)
	}
	return nil
}

func (r *mongoCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoCustomerRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	return r.findOne(ctx, bson.M{"email": caseInsensitiveEq(email), "active": true})
}

func (r *mongoCustomerRepository) FindAll(ctx context.Context, filter ListFilter) ([]*model.Customer, error) {
	query := bson.M{}
	if !filter.IncludeInactive {
		query["active"] = true
	}

	if filter.Query != "" {
		contains := caseInsensitiveContains(filter.Query)
		query["$or"] = bson.A{
			bson.M{"name": contains},
			bson.M{"email": contains},
			bson.M{"company": contains},
		}
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, err
	}

	customers := make([]*model.Customer, 0)
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *mongoCustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return mongoDuplicateEmail(err, c.Email)
	}

	if res.MatchedCount == 0 {
		return apperrors.NewNotFoundErr("customer", c.ID)
	}
	return nil
}

func (r *mongoCustomerRepository) findOne(ctx context.Context, query bson.M) (*model.Customer, error) {
	var c model.Customer
	if err := r.coll.FindOne(ctx, query).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
