package repository

import (
	"context"
	"time"

	"theory-test-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TemplateRepository struct {
	Col *mongo.Collection
}

func NewTemplateRepository(db *mongo.Database) *TemplateRepository {
	return &TemplateRepository{Col: db.Collection("templates")}
}

func (r *TemplateRepository) Create(ctx context.Context, template *models.TestTemplate) error {
	if template.ID == "" {
		template.ID = primitive.NewObjectID().Hex()
	}
	template.CreatedAt = time.Now()
	template.UpdatedAt = template.CreatedAt
	_, err := r.Col.InsertOne(ctx, template)
	return err
}

func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*models.TestTemplate, error) {
	var template models.TestTemplate
	if err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&template); err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *TemplateRepository) ListByUser(ctx context.Context, userID string) ([]models.TestTemplate, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var templates []models.TestTemplate
	if err := cur.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *TemplateRepository) Update(ctx context.Context, id string, update bson.M) error {
	update["updated_at"] = time.Now()
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
