package repository

import (
	"context"

	"theory-test-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LicenseTypeRepository struct {
	Col *mongo.Collection
}

func NewLicenseTypeRepository(db *mongo.Database) *LicenseTypeRepository {
	return &LicenseTypeRepository{Col: db.Collection("license_types")}
}

func (r *LicenseTypeRepository) FindAll(ctx context.Context) ([]models.LicenseType, error) {
	cur, err := r.Col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var types []models.LicenseType
	if err := cur.All(ctx, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *LicenseTypeRepository) FindByID(ctx context.Context, id string) (*models.LicenseType, error) {
	var lt models.LicenseType
	if err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&lt); err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *LicenseTypeRepository) FindChildren(ctx context.Context, parentID string) ([]models.LicenseType, error) {
	cur, err := r.Col.Find(ctx, bson.M{"parent_id": parentID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var children []models.LicenseType
	if err := cur.All(ctx, &children); err != nil {
		return nil, err
	}
	return children, nil
}

// ExpandIDs resolves a license-type filter to itself plus all children, so a
// parent license covers its whole subtree when sampling or scoring.
func (r *LicenseTypeRepository) ExpandIDs(ctx context.Context, id string) ([]string, error) {
	ids := []string{id}
	children, err := r.FindChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		ids = append(ids, c.ID)
	}
	return ids, nil
}
