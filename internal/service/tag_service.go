package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dom/diary-service/internal/domain"
	"github.com/dom/diary-service/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxTagNameRunes = 100

type TagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// Create adds a tag. Tag names are global and unique.
func (s *TagService) Create(ctx context.Context, name string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrTagNameRequired
	}
	if utf8.RuneCountInString(name) > maxTagNameRunes {
		name = string([]rune(name)[:maxTagNameRunes])
	}

	tag := &domain.Tag{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrTagExists
		}
		return nil, err
	}
	return tag, nil
}

func (s *TagService) List(ctx context.Context) ([]*domain.Tag, error) {
	return s.tagRepo.GetAll(ctx)
}

func (s *TagService) Get(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

// Delete removes the tag and every diary link to it.
func (s *TagService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.tagRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTagNotFound
		}
		return err
	}
	return nil
}
