package service

import (
	"context"
	"fmt"
	"strings"

	"gamerx/internal/model"
	"gamerx/internal/repository"

	"github.com/google/uuid"
)

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Reviewer identifies the author of a review as carried by the session token
type Reviewer struct {
	ID       uuid.UUID
	Username string
}

type ReviewService interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]repository.ReviewListing, error)
	Create(ctx context.Context, author Reviewer, productID uuid.UUID, req ReviewRequest) (*model.Review, error)
	Delete(ctx context.Context, adminID, reviewID uuid.UUID) error
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, productRepo: productRepo, auditRepo: auditRepo, txManager: txManager}
}

func (s *reviewService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]repository.ReviewListing, error) {
	reviews, err := s.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *reviewService) Create(ctx context.Context, author Reviewer, productID uuid.UUID, req ReviewRequest) (*model.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, invalid("Rating must be between 1 and 5")
	}

	if _, err := s.productRepo.GetListing(ctx, productID, nil); err != nil {
		return nil, lookup(err, "Product")
	}

	review := &model.Review{
		ProductID: productID,
		UserID:    author.ID,
		Username:  author.Username,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

// Delete is global moderation: any admin may remove any review.
func (s *reviewService) Delete(ctx context.Context, adminID, reviewID uuid.UUID) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		review, err := s.reviewRepo.FindByID(txCtx, reviewID)
		if err != nil {
			return lookup(err, "Review")
		}
		deleted, err := s.reviewRepo.Delete(txCtx, reviewID)
		if err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		if !deleted {
			return notFound("Review not found")
		}

		details := map[string]interface{}{"product_id": review.ProductID, "author": review.Username, "rating": review.Rating}
		return writeAudit(txCtx, s.auditRepo, adminID, model.ActionDeleteReview, review.ID.String(), review.Username, details)
	})
}
