package repository

import (
	"context"

	"theory-test-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SignRepository struct {
	Col *mongo.Collection
}

func NewSignRepository(db *mongo.Database) *SignRepository {
	return &SignRepository{Col: db.Collection("signs")}
}

func (r *SignRepository) FindAll(ctx context.Context, categoryID string) ([]models.Sign, error) {
	filter := bson.M{}
	if categoryID != "" {
		filter["category_id"] = categoryID
	}
	cur, err := r.Col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var signs []models.Sign
	if err := cur.All(ctx, &signs); err != nil {
		return nil, err
	}
	return signs, nil
}

func (r *SignRepository) FindByID(ctx context.Context, id string) (*models.Sign, error) {
	var sign models.Sign
	if err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&sign); err != nil {
		return nil, err
	}
	return &sign, nil
}
