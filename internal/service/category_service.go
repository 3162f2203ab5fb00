package service

import (
	"context"
	"fmt"
	"strings"

	"gamerx/internal/model"
	"gamerx/internal/repository"

	"github.com/google/uuid"
)

// CategoryRequest is used for both create and update. On update, nil fields keep the
// stored value.
type CategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CategoryService interface {
	ListNames(ctx context.Context) ([]string, error)
	ListOwned(ctx context.Context, adminID uuid.UUID) ([]model.Category, error)
	Create(ctx context.Context, adminID uuid.UUID, req CategoryRequest) (*model.Category, error)
	Update(ctx context.Context, adminID, id uuid.UUID, req CategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, adminID, id uuid.UUID) error
}

type categoryService struct {
	repo      repository.CategoryRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewCategoryService(repo repository.CategoryRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) CategoryService {
	return &categoryService{repo: repo, auditRepo: auditRepo, txManager: txManager}
}

func (s *categoryService) ListNames(ctx context.Context) ([]string, error) {
	names, err := s.repo.ListNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list category names: %w", err)
	}
	return names, nil
}

func (s *categoryService) ListOwned(ctx context.Context, adminID uuid.UUID) ([]model.Category, error) {
	categories, err := s.repo.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func categoryCollision(err error) error {
	if repository.IsUniqueViolation(err) {
		return conflict("Category with this name already exists")
	}
	return err
}

func (s *categoryService) Create(ctx context.Context, adminID uuid.UUID, req CategoryRequest) (*model.Category, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, invalid("Category name is required")
	}

	category := &model.Category{AdminID: adminID, Name: strings.TrimSpace(*req.Name)}
	if req.Description != nil {
		category.Description = *req.Description
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, category); err != nil {
			return categoryCollision(err)
		}
		return writeAudit(txCtx, s.auditRepo, adminID, model.ActionCreateCategory, category.ID.String(), category.Name, req)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, adminID, id uuid.UUID, req CategoryRequest) (*model.Category, error) {
	var category *model.Category
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		category, err = s.repo.FindOwned(txCtx, id, adminID)
		if err != nil {
			if repository.IsNotFound(err) {
				return forbidden("Category not found or unauthorized")
			}
			return fmt.Errorf("failed to load category: %w", err)
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return invalid("Category name cannot be empty")
			}
			category.Name = name
		}
		if req.Description != nil {
			category.Description = *req.Description
		}

		if err := s.repo.Update(txCtx, category); err != nil {
			return categoryCollision(err)
		}
		return writeAudit(txCtx, s.auditRepo, adminID, model.ActionUpdateCategory, category.ID.String(), category.Name, req)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, adminID, id uuid.UUID) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		category, err := s.repo.FindOwned(txCtx, id, adminID)
		if err != nil {
			if repository.IsNotFound(err) {
				return forbidden("Category not found or unauthorized")
			}
			return fmt.Errorf("failed to load category: %w", err)
		}
		if err := s.repo.Delete(txCtx, id, adminID); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, adminID, model.ActionDeleteCategory, category.ID.String(), category.Name, nil)
	})
}
