package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"slicehouse/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// MockResolver is a mock implementation of UserResolver.
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveBySubject(ctx context.Context, subject string) (*model.User, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func signedToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func okHandler(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantUserID, user.ID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuth_ValidToken(t *testing.T) {
	logger := zerolog.Nop()

	resolver := new(MockResolver)
	resolver.On("ResolveBySubject", mock.Anything, "user_1").
		Return(&model.User{ID: "user_1", Role: model.RoleUser}, nil)

	handler := BearerAuth(testSecret, resolver, logger)(okHandler(t, "user_1"))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user_1"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resolver.AssertExpectations(t)
}

func TestBearerAuth_MissingToken(t *testing.T) {
	logger := zerolog.Nop()
	resolver := new(MockResolver)

	handler := BearerAuth(testSecret, resolver, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuth_WrongSignature(t *testing.T) {
	logger := zerolog.Nop()
	resolver := new(MockResolver)

	handler := BearerAuth("a-different-secret", resolver, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user_1"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuth_ExpiredToken(t *testing.T) {
	logger := zerolog.Nop()
	resolver := new(MockResolver)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user_1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	handler := BearerAuth(testSecret, resolver, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuth_UnresolvableSubjectForbidden(t *testing.T) {
	logger := zerolog.Nop()

	resolver := new(MockResolver)
	resolver.On("ResolveBySubject", mock.Anything, "user_gone").
		Return(nil, errors.New("identity provider unavailable"))

	handler := BearerAuth(testSecret, resolver, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "user_gone"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name     string
		user     *model.User
		allowed  []model.Role
		expected int
	}{
		{
			name:     "admin allowed",
			user:     &model.User{ID: "admin_1", Role: model.RoleAdmin},
			allowed:  []model.Role{model.RoleAdmin},
			expected: http.StatusOK,
		},
		{
			name:     "chef allowed on staff route",
			user:     &model.User{ID: "chef_1", Role: model.RoleChef},
			allowed:  []model.Role{model.RoleChef, model.RoleDelivery, model.RoleAdmin},
			expected: http.StatusOK,
		},
		{
			name:     "customer forbidden on staff route",
			user:     &model.User{ID: "user_1", Role: model.RoleUser},
			allowed:  []model.Role{model.RoleChef, model.RoleDelivery, model.RoleAdmin},
			expected: http.StatusForbidden,
		},
		{
			name:     "chef forbidden on admin route",
			user:     &model.User{ID: "chef_1", Role: model.RoleChef},
			allowed:  []model.Role{model.RoleAdmin},
			expected: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(logger, tt.allowed...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
			req = req.WithContext(ContextWithUser(req.Context(), tt.user))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestRequireRole_NoUserInContext(t *testing.T) {
	logger := zerolog.Nop()

	handler := RequireRole(logger, model.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORS_Preflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight should short-circuit")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/orders", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}
