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

type ProgressRepository struct {
	Col *mongo.Collection
}

func NewProgressRepository(db *mongo.Database) *ProgressRepository {
	return &ProgressRepository{Col: db.Collection("progress")}
}

// RecordAnswer upserts the user×question row in one atomic operation: the
// row is created on first contact, the matching counter is incremented, and
// last_answered_at always moves. Counters never decrement.
func (r *ProgressRepository) RecordAnswer(ctx context.Context, userID, questionID string, correct bool, now time.Time) (*models.UserQuestionProgress, error) {
	counter := "times_wrong"
	if correct {
		counter = "times_correct"
	}

	update := bson.M{
		"$inc": bson.M{counter: 1},
		"$set": bson.M{"last_answered_at": now},
		"$setOnInsert": bson.M{
			"_id":               primitive.NewObjectID().Hex(),
			"user_id":           userID,
			"question_id":       questionID,
			"first_answered_at": now,
			"is_bookmarked":     false,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var row models.UserQuestionProgress
	err := r.Col.FindOneAndUpdate(ctx, bson.M{"user_id": userID, "question_id": questionID}, update, opts).Decode(&row)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ToggleBookmark flips the bookmark flag, creating the row on first toggle.
// Bookmark toggles never touch the answer timestamps.
func (r *ProgressRepository) ToggleBookmark(ctx context.Context, userID, questionID string) (bool, error) {
	filter := bson.M{"user_id": userID, "question_id": questionID}

	var existing models.UserQuestionProgress
	err := r.Col.FindOne(ctx, filter).Decode(&existing)
	if err != nil && err != mongo.ErrNoDocuments {
		return false, err
	}

	next := true
	if err == nil {
		next = !existing.IsBookmarked
	}

	update := bson.M{
		"$set": bson.M{"is_bookmarked": next},
		"$setOnInsert": bson.M{
			"_id":           primitive.NewObjectID().Hex(),
			"user_id":       userID,
			"question_id":   questionID,
			"times_correct": 0,
			"times_wrong":   0,
		},
	}
	if _, err := r.Col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return false, err
	}
	return next, nil
}

func (r *ProgressRepository) FindByUser(ctx context.Context, userID string, questionIDs []string) ([]models.UserQuestionProgress, error) {
	filter := bson.M{"user_id": userID}
	if len(questionIDs) > 0 {
		filter["question_id"] = bson.M{"$in": questionIDs}
	}
	cur, err := r.Col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.UserQuestionProgress
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ProgressRepository) BookmarkedQuestionIDs(ctx context.Context, userID string) ([]string, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID, "is_bookmarked": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			QuestionID string `bson:"question_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.QuestionID)
	}
	return ids, cur.Err()
}
