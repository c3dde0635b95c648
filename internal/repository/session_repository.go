package repository

import (
	"context"

	"theory-test-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepository struct {
	Col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{Col: db.Collection("sessions")}
}

func activeStatusFilter() bson.M {
	statuses := models.ActiveStatuses()
	vals := make([]models.SessionStatus, len(statuses))
	copy(vals, statuses)
	return bson.M{"$in": vals}
}

func (r *SessionRepository) Create(ctx context.Context, session *models.TestSession) error {
	if session.ID == "" {
		session.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.Col.InsertOne(ctx, session)
	return err
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.TestSession, error) {
	var session models.TestSession
	if err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

// FindActiveForUser returns the user's single in-progress or paused session,
// or nil when there is none.
func (r *SessionRepository) FindActiveForUser(ctx context.Context, userID string) (*models.TestSession, error) {
	var session models.TestSession
	err := r.Col.FindOne(ctx, bson.M{"user_id": userID, "status": activeStatusFilter()}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// RecordAnswer persists one answer in a single conditional update: it only
// matches while the session is non-terminal and the question has no recorded
// answer yet, so two concurrent submissions can never both increment the
// counters. Returns false when the condition did not match.
func (r *SessionRepository) RecordAnswer(ctx context.Context, sessionID, questionID string, answer models.SessionAnswer, remaining int) (bool, error) {
	counter := "wrong_count"
	if answer.IsCorrect {
		counter = "correct_count"
	}

	filter := bson.M{
		"_id":                   sessionID,
		"status":                activeStatusFilter(),
		"answers." + questionID: bson.M{"$exists": false},
	}
	update := bson.M{
		"$set": bson.M{
			"answers." + questionID:  answer,
			"remaining_time_seconds": remaining,
		},
		"$inc":  bson.M{counter: 1},
		"$pull": bson.M{"skipped_question_ids": questionID},
	}

	res, err := r.Col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// AddSkip adds the question to the skipped set; $addToSet keeps the
// operation idempotent. Returns false when the session is terminal or the
// question already has an answer.
func (r *SessionRepository) AddSkip(ctx context.Context, sessionID, questionID string) (bool, error) {
	filter := bson.M{
		"_id":                   sessionID,
		"status":                activeStatusFilter(),
		"answers." + questionID: bson.M{"$exists": false},
	}
	update := bson.M{"$addToSet": bson.M{"skipped_question_ids": questionID}}

	res, err := r.Col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *SessionRepository) Update(ctx context.Context, id string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

// FinalizeIfActive applies the terminal fields only while the session is
// still active, which is what makes Complete idempotent under retries: the
// second writer matches nothing and re-reads the stored outcome.
func (r *SessionRepository) FinalizeIfActive(ctx context.Context, id string, set bson.M) (bool, error) {
	filter := bson.M{"_id": id, "status": activeStatusFilter()}
	res, err := r.Col.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

type SessionListFilter struct {
	Status   models.SessionStatus
	TestType models.TestType
	Skip     int64
	Limit    int64
}

func (r *SessionRepository) ListForUser(ctx context.Context, userID string, f SessionListFilter) ([]models.TestSession, int64, error) {
	filter := bson.M{"user_id": userID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.TestType != "" {
		filter["config.test_type"] = f.TestType
	}

	total, err := r.Col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Skip > 0 {
		opts.SetSkip(f.Skip)
	}
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var sessions []models.TestSession
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// FindFinishedForUser returns passed/failed sessions, optionally restricted
// to a license-type id set, newest finished first. Abandoned sessions carry
// no score and stay out of the estimators.
func (r *SessionRepository) FindFinishedForUser(ctx context.Context, userID string, licenseTypeIDs []string) ([]models.TestSession, error) {
	filter := bson.M{
		"user_id": userID,
		"status":  bson.M{"$in": []models.SessionStatus{models.StatusPassed, models.StatusFailed}},
	}
	if len(licenseTypeIDs) > 0 {
		filter["config.license_type_id"] = bson.M{"$in": licenseTypeIDs}
	}

	opts := options.Find().SetSort(bson.D{{Key: "finished_at", Value: -1}})
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sessions []models.TestSession
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
