package memory

import (
	"context"

	"gamerx/internal/model"
	"gamerx/internal/repository"

	"github.com/google/uuid"
)

type reviewRepo struct {
	s *Store
}

func (r *reviewRepo) Create(ctx context.Context, review *model.Review) error {
	return r.s.write(ctx, "reviews.create", func(d *data) error {
		review.ID = newID(review.ID)
		review.CreatedAt = r.s.now()
		d.reviews[review.ID] = *review
		d.reviewOrder = append(d.reviewOrder, review.ID)
		return nil
	})
}

func (r *reviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var found *model.Review
	_ = r.s.read(ctx, func(d *data) error {
		if rv, ok := d.reviews[id]; ok {
			found = &rv
		}
		return nil
	})
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

func (r *reviewRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]repository.ReviewListing, error) {
	out := []repository.ReviewListing{}
	_ = r.s.read(ctx, func(d *data) error {
		for i := len(d.reviewOrder) - 1; i >= 0; i-- {
			rv, ok := d.reviews[d.reviewOrder[i]]
			if !ok || rv.ProductID != productID {
				continue
			}
			current := rv.Username
			if u, ok := d.users[rv.UserID]; ok {
				current = u.Username
			}
			out = append(out, repository.ReviewListing{
				ID:              rv.ID,
				ProductID:       rv.ProductID,
				UserID:          rv.UserID,
				Username:        rv.Username,
				CurrentUsername: current,
				Rating:          rv.Rating,
				Comment:         rv.Comment,
				CreatedAt:       rv.CreatedAt,
			})
		}
		return nil
	})
	return out, nil
}

func (r *reviewRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted := false
	err := r.s.write(ctx, "reviews.delete", func(d *data) error {
		if _, ok := d.reviews[id]; ok {
			delete(d.reviews, id)
			deleted = true
		}
		return nil
	})
	return deleted, err
}

type auditRepo struct {
	s *Store
}

func (r *auditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	return r.s.write(ctx, "audit_logs.create", func(d *data) error {
		entry.ID = newID(entry.ID)
		entry.CreatedAt = r.s.now()
		d.audit = append(d.audit, *entry)
		return nil
	})
}

func (r *auditRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]model.AuditLog, int64, error) {
	var matched []model.AuditLog
	_ = r.s.read(ctx, func(d *data) error {
		for i := len(d.audit) - 1; i >= 0; i-- {
			entry := d.audit[i]
			if entry.UserID == nil || *entry.UserID != userID {
				continue
			}
			if u, ok := d.users[userID]; ok {
				entry.User = &u
			}
			matched = append(matched, entry)
		}
		return nil
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return []model.AuditLog{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}
