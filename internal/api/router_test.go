package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/micellaneous/accounts-api/internal/core/domain"
	"github.com/micellaneous/accounts-api/internal/core/ports"
	"github.com/micellaneous/accounts-api/internal/core/service"
)

type memoryUserRepo struct {
	users  map[int]*domain.User
	nextID int
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[int]*domain.User), nextID: 1}
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *memoryUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memoryUserRepo) FindByID(_ context.Context, id int) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *memoryUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	saved := copyUser(user)
	if saved.ID == 0 {
		saved.ID = r.nextID
		r.nextID++
	}
	r.users[saved.ID] = copyUser(saved)
	return saved, nil
}

func (r *memoryUserRepo) DeleteByID(_ context.Context, id int) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memoryUserRepo) List(_ context.Context, pageIndex, pageSize int) (*ports.Page, error) {
	ids := make([]int, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	items := make([]*domain.User, 0, pageSize)
	for i := pageIndex * pageSize; i < len(ids) && len(items) < pageSize; i++ {
		items = append(items, copyUser(r.users[ids[i]]))
	}
	return &ports.Page{Items: items, PageIndex: pageIndex, PageSize: pageSize, TotalItems: int64(len(ids))}, nil
}

func (r *memoryUserRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

// The prometheus middleware registers its collectors in the default registry,
// so the router is built once and shared by every scenario below.
func TestRouterEndToEnd(t *testing.T) {
	repo := newMemoryUserRepo()
	hasher := service.NewBcryptHasher(bcrypt.MinCost)
	users := service.NewUserService(repo, hasher, zerolog.Nop())
	tokens := service.NewTokenService(service.TokenConfig{Secret: "router-test-secret"})

	e := NewRouter(Deps{
		Users:    users,
		Tokens:   tokens,
		UserRepo: repo,
		Version:  "test",
		Log:      zerolog.Nop(),
	})

	ctx := context.Background()
	admin, err := users.Create(ctx, ports.UserInput{
		Username: "root", Password: "rootpw", Name: "Root", Surname: "Admin",
		Email: "root@corp.test", Role: domain.RoleAdministrator,
	})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	member, err := users.Create(ctx, ports.UserInput{
		Username: "dave", Password: "davepw", Name: "Dave", Surname: "Doe",
		Email: "dave@corp.test", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	do := func(method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if body != "" {
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		var payload map[string]any
		if rec.Body.Len() > 0 {
			_ = json.Unmarshal(rec.Body.Bytes(), &payload)
		}
		return rec, payload
	}

	login := func(t *testing.T, username, password string) string {
		t.Helper()
		rec, payload := do(http.MethodPost, "/api/v1/login", "",
			fmt.Sprintf(`{"username":%q,"password":%q}`, username, password))
		if rec.Code != http.StatusOK {
			t.Fatalf("login %s: status = %d, body = %s", username, rec.Code, rec.Body.String())
		}
		token, _ := payload["token"].(string)
		if token == "" {
			t.Fatalf("login %s: no token in response", username)
		}
		return token
	}

	t.Run("login with wrong password is collapsed", func(t *testing.T) {
		rec, payload := do(http.MethodPost, "/api/v1/login", "", `{"username":"dave","password":"nope"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if payload["error"] != "Invalid username/password supplied" {
			t.Fatalf("error = %q", payload["error"])
		}
	})

	memberToken := login(t, "dave", "davepw")
	adminToken := login(t, "root", "rootpw")

	t.Run("me requires a token", func(t *testing.T) {
		rec, _ := do(http.MethodGet, "/api/v1/users/me", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("me returns the caller", func(t *testing.T) {
		rec, payload := do(http.MethodGet, "/api/v1/users/me", memberToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if payload["username"] != "dave" {
			t.Fatalf("username = %q", payload["username"])
		}
	})

	t.Run("user cannot read another account", func(t *testing.T) {
		rec, payload := do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", admin.ID), memberToken, "")
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
		want := fmt.Sprintf("You don't have the rights to access user %d information", admin.ID)
		if payload["error"] != want {
			t.Fatalf("error = %q, want %q", payload["error"], want)
		}
	})

	t.Run("listing is admin only", func(t *testing.T) {
		rec, _ := do(http.MethodGet, "/api/v1/users/page/0/size/10", memberToken, "")
		if rec.Code != http.StatusForbidden {
			t.Fatalf("member status = %d, want 403", rec.Code)
		}
		rec, payload := do(http.MethodGet, "/api/v1/users/page/0/size/10", adminToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("admin status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if int(payload["total_items"].(float64)) != 2 {
			t.Fatalf("total_items = %v, want 2", payload["total_items"])
		}
	})

	t.Run("admin can read any account", func(t *testing.T) {
		rec, payload := do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", member.ID), adminToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if payload["username"] != "dave" {
			t.Fatalf("username = %q", payload["username"])
		}
	})

	t.Run("token validation endpoint", func(t *testing.T) {
		rec, payload := do(http.MethodPost, "/api/v1/login/token", "", fmt.Sprintf(`{"token":%q}`, memberToken))
		if rec.Code != http.StatusOK || payload["valid"] != true {
			t.Fatalf("status = %d, valid = %v", rec.Code, payload["valid"])
		}
		rec, payload = do(http.MethodPost, "/api/v1/login/token", "", `{"token":"not-a-jwt"}`)
		if rec.Code != http.StatusOK || payload["valid"] != false {
			t.Fatalf("status = %d, valid = %v", rec.Code, payload["valid"])
		}
	})

	t.Run("disabling an account invalidates live tokens", func(t *testing.T) {
		rec, _ := do(http.MethodPatch, fmt.Sprintf("/api/v1/users/%d/active/false", member.ID), adminToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("disable status = %d, body = %s", rec.Code, rec.Body.String())
		}
		rec, _ = do(http.MethodGet, "/api/v1/users/me", memberToken, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401 after disable", rec.Code)
		}
	})

	t.Run("health liveness is public", func(t *testing.T) {
		rec, _ := do(http.MethodGet, "/health", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})
}
