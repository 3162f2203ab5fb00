package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"gamerx/internal/model"
	"gamerx/internal/repository/memory"
	"gamerx/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func setup(t *testing.T) (*gin.Engine, *memory.Store, *token.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos, store := memory.NewSet()
	tokens := token.NewManager("middleware-secret", token.DefaultTTL)
	auth := NewAuthenticator(tokens, repos.Users)

	r := gin.New()
	r.GET("/admin", auth.Authenticate(), auth.Authorize(model.RoleAdmin), func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.String(http.StatusOK, id.String())
	})
	return r, store, tokens
}

func addUser(t *testing.T, store *memory.Store, role string) *model.User {
	t.Helper()
	u := &model.User{Username: "u-" + role, Email: role + "@x.com", Password: "x", Role: role, IsVerified: true}
	if err := store.Set().Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func do(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthorize(t *testing.T) {
	r, store, tokens := setup(t)
	admin := addUser(t, store, model.RoleAdmin)
	buyer := addUser(t, store, model.RoleUser)

	adminToken, _, err := tokens.Issue(admin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	buyerToken, _, err := tokens.Issue(buyer)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + adminToken, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"wrong role", "Bearer " + buyerToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := do(r, tc.header); w.Code != tc.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestAuthorizeRechecksStoredRole(t *testing.T) {
	r, store, tokens := setup(t)
	admin := addUser(t, store, model.RoleAdmin)
	signed, _, err := tokens.Issue(admin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	store.SetRole(admin.ID, model.RoleUser)
	if w := do(r, "Bearer "+signed); w.Code != http.StatusForbidden {
		t.Fatalf("demoted admin status = %d, want 403", w.Code)
	}
}

func TestAuthorizeRejectsDeletedUser(t *testing.T) {
	r, _, tokens := setup(t)
	ghost := &model.User{ID: uuid.New(), Username: "ghost", Email: "ghost@x.com", Role: model.RoleAdmin}

	signed, _, err := tokens.Issue(ghost)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if w := do(r, "Bearer "+signed); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
