package repository

import (
	"context"
	"time"

	"theory-test-service/internal/models"
	"theory-test-service/internal/selection"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

func criteriaFilter(c selection.Criteria) bson.M {
	filter := bson.M{}
	if c.ActiveOnly {
		filter["active"] = true
	}
	if len(c.QuestionIDs) > 0 {
		// Bookmarked-only sampling: the id set replaces license/category
		// filtering entirely.
		filter["_id"] = bson.M{"$in": c.QuestionIDs}
		return filter
	}
	if len(c.LicenseTypeIDs) > 0 {
		filter["license_type_ids"] = bson.M{"$in": c.LicenseTypeIDs}
	}
	if len(c.CategoryIDs) > 0 {
		filter["category_id"] = bson.M{"$in": c.CategoryIDs}
	}
	return filter
}

// FindByCriteria returns the full candidate pool for a sample; the sampler
// draws from it afterwards.
func (r *QuestionRepository) FindByCriteria(ctx context.Context, c selection.Criteria) ([]models.Question, error) {
	cur, err := r.Col.Find(ctx, criteriaFilter(c))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var questions []models.Question
	if err := cur.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// FindIDsByCriteria projects matching question ids only; mastery scoring
// needs the id universe, not the documents.
func (r *QuestionRepository) FindIDsByCriteria(ctx context.Context, c selection.Criteria) ([]string, error) {
	cur, err := r.Col.Find(ctx, criteriaFilter(c))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cur.Err()
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	if err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&question); err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	if question.ID == "" {
		question.ID = primitive.NewObjectID().Hex()
	}
	question.CreatedAt = time.Now()
	question.UpdatedAt = question.CreatedAt
	_, err := r.Col.InsertOne(ctx, question)
	return err
}

func (r *QuestionRepository) Update(ctx context.Context, id string, update bson.M) error {
	update["updated_at"] = time.Now()
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

// Delete deactivates a question instead of removing it; sessions snapshot
// questions anyway, and history must stay explainable.
func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	return r.Update(ctx, id, bson.M{"active": false})
}

func (r *QuestionRepository) CountByCriteria(ctx context.Context, c selection.Criteria) (int64, error) {
	return r.Col.CountDocuments(ctx, criteriaFilter(c))
}

type CategoryCount struct {
	CategoryID string `bson:"_id" json:"category_id"`
	Count      int64  `bson:"count" json:"count"`
}

func (r *QuestionRepository) CountByCategory(ctx context.Context, c selection.Criteria) ([]CategoryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: criteriaFilter(c)}},
		{{Key: "$group", Value: bson.M{"_id": "$category_id", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cur, err := r.Col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var counts []CategoryCount
	if err := cur.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}
