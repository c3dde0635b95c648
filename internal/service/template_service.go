package service

import (
	"context"
	"strings"
	"time"

	"theory-test-service/internal/models"
	"theory-test-service/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type TemplateService struct {
	Repo     *repository.TemplateRepository
	Sessions *SessionService
}

func NewTemplateService(repo *repository.TemplateRepository, sessions *SessionService) *TemplateService {
	return &TemplateService{Repo: repo, Sessions: sessions}
}

func (s *TemplateService) load(ctx context.Context, userID, templateID string) (*models.TestTemplate, error) {
	template, err := s.Repo.FindByID(ctx, templateID)
	if err == mongo.ErrNoDocuments {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	if template.UserID != userID {
		return nil, ErrForbidden
	}
	return template, nil
}

func (s *TemplateService) Create(ctx context.Context, userID, name string, cfg models.SessionConfig) (*models.TestTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrInvalidConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	template := &models.TestTemplate{
		UserID: userID,
		Name:   name,
		Config: cfg,
	}
	if err := s.Repo.Create(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *TemplateService) Get(ctx context.Context, userID, templateID string) (*models.TestTemplate, error) {
	return s.load(ctx, userID, templateID)
}

func (s *TemplateService) List(ctx context.Context, userID string) ([]models.TestTemplate, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *TemplateService) Update(ctx context.Context, userID, templateID, name string, cfg models.SessionConfig) (*models.TestTemplate, error) {
	template, err := s.load(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrInvalidConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	template.Name = name
	template.Config = cfg
	template.UpdatedAt = time.Now()
	err = s.Repo.Update(ctx, templateID, bson.M{
		"name":       template.Name,
		"config":     template.Config,
		"updated_at": template.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}
	return template, nil
}

func (s *TemplateService) Delete(ctx context.Context, userID, templateID string) error {
	if _, err := s.load(ctx, userID, templateID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, templateID)
}

// Start launches a session from the stored configuration. The usual
// one-active-session rule applies.
func (s *TemplateService) Start(ctx context.Context, userID, templateID string, abandonActive bool) (*models.TestSession, error) {
	template, err := s.load(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}
	return s.Sessions.Create(ctx, userID, template.Config, abandonActive)
}
