package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dilg-calendar/calendar-backend-go/internal/config"
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/auth"
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/event"
	"github.com/dilg-calendar/calendar-backend-go/internal/domain/user"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeAuthService struct {
	actors    map[string]user.Actor
	revoked   map[string]bool
	loginErr  error
	loggedOut []user.Actor
	refreshed []string
}

func (f *fakeAuthService) Signup(ctx context.Context, req auth.SignupRequest) (user.UserResponse, error) {
	return user.UserResponse{ID: req.ID, Name: req.Name, Email: req.Email}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if f.loginErr != nil {
		return auth.TokenResponse{}, f.loginErr
	}
	return auth.TokenResponse{
		AccessToken:           "access",
		RefreshToken:          "refresh-1",
		RefreshTokenExpiresIn: time.Now().Add(time.Hour).Unix(),
		UserID:                7,
	}, nil
}

func (f *fakeAuthService) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.TokenResponse, error) {
	f.refreshed = append(f.refreshed, req.RefreshToken)
	if req.RefreshToken != "refresh-1" {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}
	return auth.TokenResponse{
		AccessToken:           "access-2",
		RefreshToken:          "refresh-2",
		RefreshTokenExpiresIn: time.Now().Add(time.Hour).Unix(),
	}, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, actor user.Actor) error {
	f.loggedOut = append(f.loggedOut, actor)
	return nil
}

func (f *fakeAuthService) ValidateSession(ctx context.Context, sessionID string) (user.Actor, error) {
	actor, ok := f.actors[sessionID]
	if !ok || f.revoked[sessionID] {
		return user.Actor{}, auth.ErrInvalidToken
	}
	return actor, nil
}

func (f *fakeAuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return 0, nil
}

// fakeEventService returns err when set, otherwise a canned event for the
// requested id.
type fakeEventService struct {
	err       error
	lastActor user.Actor
	lastList  event.ListEventsRequest
	declined  event.DeclineEventRequest
	postponed event.InterruptEventRequest
}

func (f *fakeEventService) resp(id string) event.EventResponse {
	return event.EventResponse{EventID: id, EventName: "Budget Hearing"}
}

func (f *fakeEventService) Create(ctx context.Context, actor user.Actor, req event.CreateEventRequest) (event.EventResponse, error) {
	f.lastActor = actor
	if f.err != nil {
		return event.EventResponse{}, f.err
	}
	resp := f.resp("2026-0001")
	resp.EventName = req.EventName
	resp.CreatedBy = actor.Name
	return resp, nil
}

func (f *fakeEventService) Update(ctx context.Context, actor user.Actor, req event.UpdateEventRequest) (event.EventResponse, error) {
	if f.err != nil {
		return event.EventResponse{}, f.err
	}
	return f.resp(req.EventID), nil
}

func (f *fakeEventService) Get(ctx context.Context, eventID string) (event.EventResponse, error) {
	if f.err != nil {
		return event.EventResponse{}, f.err
	}
	return f.resp(eventID), nil
}

func (f *fakeEventService) List(ctx context.Context, req event.ListEventsRequest) ([]event.EventResponse, error) {
	f.lastList = req
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return []event.EventResponse{f.resp("2026-0001"), f.resp("2026-0002")}, nil
}

func (f *fakeEventService) Delete(ctx context.Context, eventID string) error {
	return f.err
}

func (f *fakeEventService) PreviewRecipients(ctx context.Context, req event.RecipientPreviewRequest) (event.RecipientPreviewResponse, error) {
	return event.RecipientPreviewResponse{InvitedEmails: req.InvitedEmails}, nil
}

func (f *fakeEventService) lifecycle(id string) (event.LifecycleResponse, error) {
	if f.err != nil {
		return event.LifecycleResponse{}, f.err
	}
	return event.LifecycleResponse{Event: f.resp(id)}, nil
}

func (f *fakeEventService) Approve(ctx context.Context, eventID string) (event.LifecycleResponse, error) {
	return f.lifecycle(eventID)
}

func (f *fakeEventService) Decline(ctx context.Context, req event.DeclineEventRequest) (event.LifecycleResponse, error) {
	f.declined = req
	return f.lifecycle(req.EventID)
}

func (f *fakeEventService) MarkInProgress(ctx context.Context, eventID string) (event.LifecycleResponse, error) {
	return f.lifecycle(eventID)
}

func (f *fakeEventService) MarkCompleted(ctx context.Context, eventID string) (event.LifecycleResponse, error) {
	return f.lifecycle(eventID)
}

func (f *fakeEventService) MarkPostponed(ctx context.Context, req event.InterruptEventRequest) (event.LifecycleResponse, error) {
	f.postponed = req
	return f.lifecycle(req.EventID)
}

func (f *fakeEventService) MarkCancelled(ctx context.Context, req event.InterruptEventRequest) (event.LifecycleResponse, error) {
	return f.lifecycle(req.EventID)
}

type fakeUserService struct {
	err        error
	lastEdit   user.EditProfileRequest
	lastImage  []byte
	lastFilter user.Filter
	declined   []int64
}

func (f *fakeUserService) GetProfile(ctx context.Context, actor user.Actor, id int64) (user.UserResponse, error) {
	if !actor.CanViewProfile(id) {
		return user.UserResponse{}, user.ErrProfileAccessDenied
	}
	return user.UserResponse{ID: id}, f.err
}

func (f *fakeUserService) EditProfile(ctx context.Context, actor user.Actor, req user.EditProfileRequest, image *user.ProfileImage) (user.UserResponse, error) {
	f.lastEdit = req
	if image != nil {
		f.lastImage, _ = io.ReadAll(image.Content)
	}
	return user.UserResponse{ID: actor.UserID}, f.err
}

func (f *fakeUserService) List(ctx context.Context, filter user.Filter) ([]user.UserResponse, error) {
	f.lastFilter = filter
	if !filter.IsValid() {
		return nil, user.ErrInvalidUserFilter
	}
	return []user.UserResponse{{ID: 1}}, nil
}

func (f *fakeUserService) Approve(ctx context.Context, actor user.Actor, id int64) (user.UserResponse, error) {
	return user.UserResponse{ID: id, IsApproved: true}, f.err
}

func (f *fakeUserService) Promote(ctx context.Context, actor user.Actor, id int64) (user.UserResponse, error) {
	return user.UserResponse{ID: id, IsAdmin: true}, f.err
}

func (f *fakeUserService) Demote(ctx context.Context, actor user.Actor, id int64) (user.UserResponse, error) {
	if actor.UserID == id {
		return user.UserResponse{}, user.ErrCannotModifySelf
	}
	return user.UserResponse{ID: id}, f.err
}

func (f *fakeUserService) Decline(ctx context.Context, actor user.Actor, id int64) error {
	f.declined = append(f.declined, id)
	return f.err
}

type testServer struct {
	router *chi.Mux
	tokens *jwt.JWTService
	auth   *fakeAuthService
	events *fakeEventService
	users  *fakeUserService
	cfg    *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Storage: config.StorageConfig{BasePath: t.TempDir(), MaxUploadSize: 1 << 20},
	}
	s := &testServer{
		tokens: jwt.NewJWTService(testSecret, time.Hour, 24*time.Hour),
		auth:   &fakeAuthService{actors: map[string]user.Actor{}, revoked: map[string]bool{}},
		events: &fakeEventService{},
		users:  &fakeUserService{},
		cfg:    cfg,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = NewRouter(cfg, logger, s.tokens, s.auth, Handlers{
		Auth:  NewAuthHandler(s.auth, false),
		Event: NewEventHandler(s.events),
		User:  NewUserHandler(s.users, cfg.Storage.MaxUploadSize),
		Admin: NewAdminHandler(s.users),
	})
	return s
}

func (s *testServer) token(t *testing.T, userID int64, isAdmin bool) string {
	t.Helper()
	claims := jwt.AccessClaims{
		UserID:    userID,
		SessionID: fmt.Sprintf("session-%d", userID),
		Name:      "Tester",
		Email:     "tester@dilg.gov.ph",
		IsAdmin:   isAdmin,
	}
	token, _, err := s.tokens.GenerateAccessToken(claims)
	require.NoError(t, err)
	s.auth.actors[claims.SessionID] = user.Actor{
		UserID:    claims.UserID,
		SessionID: claims.SessionID,
		Name:      claims.Name,
		Email:     claims.Email,
		IsAdmin:   claims.IsAdmin,
	}
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(req)
}

func (s *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}
