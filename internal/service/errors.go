package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gamerx/internal/model"
	"gamerx/internal/repository"

	"github.com/google/uuid"
)

// Error kinds. Handlers translate them into HTTP statuses.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// Error is a failure the caller can act on. Message is safe to show to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func invalid(format string, args ...interface{}) error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...interface{}) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func unauthorized(msg string) error {
	return &Error{Kind: ErrUnauthorized, Message: msg}
}

func forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Message: msg}
}

func notFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

// lookup turns a repository miss into a not-found error and wraps everything else.
func lookup(err error, what string) error {
	if repository.IsNotFound(err) {
		return notFound(what + " not found")
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

// writeAudit records action on behalf of userID. It must run inside the caller's transaction.
func writeAudit(ctx context.Context, repo repository.AuditRepository, userID uuid.UUID, action, entityID, entityName string, details interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil || details == nil {
		payload = []byte("{}")
	}
	uid := userID
	entry := &model.AuditLog{
		UserID:     &uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
