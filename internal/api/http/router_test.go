package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/api/dto"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/api/http/handlers"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/auth"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/config"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/observability"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/persistence"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/service"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	store := persistence.NewMemoryStore()
	records := persistence.NewRecords(store)
	authService := service.NewAuthService(config.AuthConfig{TokenTTLHours: 24, BcryptCost: 4}, records, nil)
	ticketService := service.NewTicketService(records, nil)

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", store),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		AuthMiddleware: auth.NewMiddleware(authService),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	return resp, data
}

func registerAndLogin(t *testing.T, app *fiber.App, email, name string) dto.AuthResponse {
	t.Helper()

	resp, data := doJSON(t, app, fiber.MethodPost, "/users", "", fiber.Map{
		"email": email, "password": "secret1", "name": name,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: want 201, got %d: %s", resp.StatusCode, data)
	}

	resp, data = doJSON(t, app, fiber.MethodPost, "/login", "", fiber.Map{
		"email": email, "password": "secret1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: want 200, got %d: %s", resp.StatusCode, data)
	}
	var authResp dto.AuthResponse
	if err := json.Unmarshal(data, &authResp); err != nil {
		t.Fatalf("unmarshal login response: %v", err)
	}
	return authResp
}

func TestRegisterLoginTicketLifecycle(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	resp, data := doJSON(t, app, fiber.MethodPost, "/users", "", fiber.Map{
		"email": "a@b.com", "password": "secret1", "name": "A",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: want 201, got %d: %s", resp.StatusCode, data)
	}
	var registered dto.UserResponse
	if err := json.Unmarshal(data, &registered); err != nil {
		t.Fatal(err)
	}
	if registered.Email != "a@b.com" || registered.Name != "A" {
		t.Fatalf("unexpected register body: %s", data)
	}
	if bytes.Contains(data, []byte("password")) {
		t.Fatalf("register response leaks a password field: %s", data)
	}

	resp, data = doJSON(t, app, fiber.MethodPost, "/login", "", fiber.Map{
		"email": "a@b.com", "password": "secret1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: want 200, got %d: %s", resp.StatusCode, data)
	}
	var session dto.AuthResponse
	if err := json.Unmarshal(data, &session); err != nil {
		t.Fatal(err)
	}
	if session.Token == "" || session.User.Email != "a@b.com" {
		t.Fatalf("unexpected login body: %s", data)
	}

	resp, data = doJSON(t, app, fiber.MethodPost, "/tickets", session.Token, fiber.Map{
		"title": "Printer jam", "status": "open",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create ticket: want 201, got %d: %s", resp.StatusCode, data)
	}
	var ticket dto.TicketResponse
	if err := json.Unmarshal(data, &ticket); err != nil {
		t.Fatal(err)
	}
	if ticket.Priority != "medium" || ticket.Status != "open" {
		t.Fatalf("expected defaults medium/open, got %s/%s", ticket.Priority, ticket.Status)
	}
	if ticket.UserID != session.User.ID {
		t.Fatalf("ticket not scoped to creator: %s", data)
	}

	resp, data = doJSON(t, app, fiber.MethodGet, "/tickets", session.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: want 200, got %d: %s", resp.StatusCode, data)
	}
	var tickets []dto.TicketResponse
	if err := json.Unmarshal(data, &tickets); err != nil {
		t.Fatal(err)
	}
	if len(tickets) != 1 || tickets[0].ID != ticket.ID {
		t.Fatalf("expected exactly the created ticket, got %s", data)
	}

	other := registerAndLogin(t, app, "intruder@b.com", "B")
	resp, data = doJSON(t, app, fiber.MethodDelete, "/tickets/"+ticket.ID, other.Token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("cross-user delete: want 403, got %d: %s", resp.StatusCode, data)
	}

	resp, _ = doJSON(t, app, fiber.MethodDelete, "/tickets/"+ticket.ID, session.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("owner delete: want 204, got %d", resp.StatusCode)
	}
}

func TestTicketEndpointsRequireAuth(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	resp, _ := doJSON(t, app, fiber.MethodGet, "/tickets", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing token: want 401, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, fiber.MethodGet, "/tickets", "not-a-real-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token must not pass validation: want 401, got %d", resp.StatusCode)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	session := registerAndLogin(t, app, "a@b.com", "A")

	resp, _ := doJSON(t, app, fiber.MethodPost, "/logout", session.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout: want 204, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, fiber.MethodGet, "/tickets", session.Token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("revoked token must not validate: want 401, got %d", resp.StatusCode)
	}
}

func TestUserLookupStripsPassword(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	registerAndLogin(t, app, "a@b.com", "A")

	resp, data := doJSON(t, app, fiber.MethodGet, "/users?email=a@b.com", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("lookup: want 200, got %d: %s", resp.StatusCode, data)
	}
	var users []dto.UserResponse
	if err := json.Unmarshal(data, &users); err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].Email != "a@b.com" {
		t.Fatalf("expected one user, got %s", data)
	}
	if bytes.Contains(data, []byte("password")) {
		t.Fatalf("lookup response leaks a password field: %s", data)
	}

	resp, data = doJSON(t, app, fiber.MethodGet, "/users?email=nobody@b.com", "", nil)
	if resp.StatusCode != http.StatusOK || string(data) != "[]" {
		t.Fatalf("unknown email: want 200 [], got %d %s", resp.StatusCode, data)
	}
}

func TestStatsEndpoint(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	session := registerAndLogin(t, app, "a@b.com", "A")

	for _, status := range []string{"open", "open", "in_progress", "closed"} {
		resp, data := doJSON(t, app, fiber.MethodPost, "/tickets", session.Token, fiber.Map{
			"title": "Printer jam", "status": status,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create: want 201, got %d: %s", resp.StatusCode, data)
		}
	}

	resp, data := doJSON(t, app, fiber.MethodGet, "/tickets/stats", session.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats: want 200, got %d: %s", resp.StatusCode, data)
	}
	var stats dto.StatsResponse
	if err := json.Unmarshal(data, &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Total != 4 || stats.Open != 2 || stats.InProgress != 1 || stats.Closed != 1 {
		t.Fatalf("unexpected counts: %s", data)
	}
}

func TestUnsupportedVerbGets405WithAllow(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	resp, _ := doJSON(t, app, fiber.MethodPut, "/login", "", fiber.Map{})
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("want 405, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Allow") == "" {
		t.Fatal("405 response must carry an Allow header")
	}
}

func TestValidationErrorsSurfaceDetails(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	session := registerAndLogin(t, app, "a@b.com", "A")

	resp, data := doJSON(t, app, fiber.MethodPost, "/tickets", session.Token, fiber.Map{
		"title": "xx",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("short title: want 400, got %d: %s", resp.StatusCode, data)
	}
	var body struct {
		Error   string         `json:"error"`
		Details map[string]any `json:"details"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatal(err)
	}
	if body.Error == "" {
		t.Fatalf("error body missing message: %s", data)
	}
	if _, ok := body.Details["title"]; !ok {
		t.Fatalf("expected a per-field message for title: %s", data)
	}
}
