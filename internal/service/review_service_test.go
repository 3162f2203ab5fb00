package service

import (
	"testing"

	"gamerx/internal/model"

	"github.com/google/uuid"
)

func TestReviews(t *testing.T) {
	s := newShop(t)
	author := Reviewer{ID: s.buyer, Username: "b@x.com"}

	for _, rating := range []int{0, 6} {
		_, err := s.reviews.Create(s.ctx, author, s.mouse.ID, ReviewRequest{Rating: rating})
		wantKind(t, err, ErrInvalidInput)
	}
	_, err := s.reviews.Create(s.ctx, author, uuid.New(), ReviewRequest{Rating: 4})
	wantKind(t, err, ErrNotFound)

	first, err := s.reviews.Create(s.ctx, author, s.mouse.ID, ReviewRequest{Rating: 4, Comment: " solid "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := s.reviews.Create(s.ctx, author, s.mouse.ID, ReviewRequest{Rating: 5})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := s.reviews.ListByProduct(s.ctx, s.mouse.ID)
	if err != nil {
		t.Fatalf("ListByProduct: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatalf("reviews = %+v, want newest first", list)
	}
	if list[1].Comment != "solid" || list[1].Username != "b@x.com" || list[1].CurrentUsername != "b@x.com" {
		t.Fatalf("review = %+v", list[1])
	}

	if err := s.reviews.Delete(s.ctx, s.admin, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	wantKind(t, s.reviews.Delete(s.ctx, s.admin, first.ID), ErrNotFound)

	logs, _, err := s.audit.GetAuditLogs(s.ctx, s.admin, 1, 1)
	if err != nil || len(logs) != 1 || logs[0].Action != model.ActionDeleteReview {
		t.Fatalf("latest audit = %+v, %v", logs, err)
	}
}

func TestReviewsOfDeletedProduct(t *testing.T) {
	s := newShop(t)
	if err := s.products.Delete(s.ctx, s.admin, s.mouse.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err := s.reviews.Create(s.ctx, Reviewer{ID: s.buyer, Username: "b"}, s.mouse.ID, ReviewRequest{Rating: 3})
	wantKind(t, err, ErrNotFound)
}
