package services

import (
	"errors"
	"strings"

	"insightboard/internal/models"

	"gorm.io/gorm"
)

var (
	ErrContentNotFound  = errors.New("content not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
)

type ContentService struct {
	audit *AuditService
}

func NewContentService(audit *AuditService) *ContentService {
	return &ContentService{audit: audit}
}

func (s *ContentService) GetContents() ([]models.Content, error) {
	var contents []models.Content
	if err := models.DB.Preload("Category").Order("created_at DESC").Find(&contents).Error; err != nil {
		return nil, err
	}
	return contents, nil
}

func (s *ContentService) GetContent(id uint) (*models.Content, error) {
	var content models.Content
	if err := models.DB.Preload("Category").First(&content, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return &content, nil
}

func (s *ContentService) CreateContent(title, body string, categoryID *uint, ownerID uint) (*models.Content, error) {
	content := &models.Content{
		Title:      strings.TrimSpace(title),
		Body:       body,
		OwnerID:    ownerID,
		CategoryID: categoryID,
	}
	if err := models.DB.Create(content).Error; err != nil {
		return nil, err
	}

	s.audit.Log(models.AuditLog{
		UserID:   &ownerID,
		Action:   "create",
		Resource: "content",
	})

	return content, nil
}

func (s *ContentService) UpdateContent(id uint, title, body *string, published *bool, actor *uint) (*models.Content, error) {
	content, err := s.GetContent(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if title != nil {
		updates["title"] = strings.TrimSpace(*title)
	}
	if body != nil {
		updates["body"] = *body
	}
	if published != nil {
		updates["published"] = *published
	}
	if len(updates) > 0 {
		if err := models.DB.Model(content).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	s.audit.Log(models.AuditLog{
		UserID:   actor,
		Action:   "update",
		Resource: "content",
	})

	return s.GetContent(id)
}

func (s *ContentService) DeleteContent(id uint, actor *uint) error {
	if _, err := s.GetContent(id); err != nil {
		return err
	}
	if err := models.DB.Delete(&models.Content{}, id).Error; err != nil {
		return err
	}

	s.audit.Log(models.AuditLog{
		UserID:   actor,
		Action:   "delete",
		Resource: "content",
	})

	return nil
}

func (s *ContentService) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := models.DB.Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *ContentService) CreateCategory(name, slug string) (*models.Category, error) {
	category := &models.Category{
		Name: strings.TrimSpace(name),
		Slug: strings.TrimSpace(slug),
	}
	if err := models.DB.Create(category).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return category, nil
}

func (s *ContentService) DeleteCategory(id uint) error {
	result := models.DB.Delete(&models.Category{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
