package service

import (
	"context"

	"theory-test-service/internal/models"
	"theory-test-service/internal/repository"
	"theory-test-service/internal/selection"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuestionService struct {
	Repo        *repository.QuestionRepository
	LicenseRepo *repository.LicenseTypeRepository
}

func NewQuestionService(repo *repository.QuestionRepository, licenseRepo *repository.LicenseTypeRepository) *QuestionService {
	return &QuestionService{Repo: repo, LicenseRepo: licenseRepo}
}

// expandCriteria resolves a license-type filter to the id plus all children
// before the repository sees it.
func (s *QuestionService) expandCriteria(ctx context.Context, c selection.Criteria, licenseTypeID string) (selection.Criteria, error) {
	if licenseTypeID == "" {
		return c, nil
	}
	ids, err := s.LicenseRepo.ExpandIDs(ctx, licenseTypeID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c, ErrNoQuestionsAvailable
		}
		return c, err
	}
	c.LicenseTypeIDs = ids
	return c, nil
}

func (s *QuestionService) List(ctx context.Context, licenseTypeID string, categoryIDs []string, activeOnly bool) ([]models.Question, error) {
	criteria, err := s.expandCriteria(ctx, selection.Criteria{
		ActiveOnly:  activeOnly,
		CategoryIDs: categoryIDs,
	}, licenseTypeID)
	if err != nil {
		return nil, err
	}
	return s.Repo.FindByCriteria(ctx, criteria)
}

func (s *QuestionService) GetByID(ctx context.Context, id string) (*models.Question, error) {
	q, err := s.Repo.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return nil, ErrQuestionNotFound
	}
	return q, err
}

func (s *QuestionService) GetByIDs(ctx context.Context, ids []string) ([]models.Question, error) {
	if len(ids) == 0 {
		return []models.Question{}, nil
	}
	return s.Repo.FindByCriteria(ctx, selection.Criteria{QuestionIDs: ids})
}

// Create validates the catalog invariants and assigns ids to the embedded
// answers. Author order becomes the persisted answer position.
func (s *QuestionService) Create(ctx context.Context, question *models.Question) error {
	for i := range question.Answers {
		if question.Answers[i].ID == "" {
			question.Answers[i].ID = uuid.NewString()
		}
		question.Answers[i].Position = i
	}
	if err := question.Validate(); err != nil {
		return err
	}
	question.Active = true
	return s.Repo.Create(ctx, question)
}

func (s *QuestionService) Update(ctx context.Context, id string, update bson.M) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.Repo.Update(ctx, id, update)
}

func (s *QuestionService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}

func (s *QuestionService) CountActive(ctx context.Context, licenseTypeID string) (int64, error) {
	criteria, err := s.expandCriteria(ctx, selection.Criteria{ActiveOnly: true}, licenseTypeID)
	if err != nil {
		return 0, err
	}
	return s.Repo.CountByCriteria(ctx, criteria)
}

func (s *QuestionService) CountByCategory(ctx context.Context, licenseTypeID string) ([]repository.CategoryCount, error) {
	criteria, err := s.expandCriteria(ctx, selection.Criteria{ActiveOnly: true}, licenseTypeID)
	if err != nil {
		return nil, err
	}
	return s.Repo.CountByCategory(ctx, criteria)
}
