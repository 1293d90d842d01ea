package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/octodock/marketplace-api/internal/pkg/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{
		Env:       "test",
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		Store:     config.StoreMemory,
	}
	a, err := New(context.Background(), cfg, zerolog.Nop(), WithHashCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

// call performs a request against the app and decodes the JSON response into out.
func call(t *testing.T, a *App, method, path, token string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

type session struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func signUp(t *testing.T, a *App, name, email, role string) session {
	t.Helper()
	if code := call(t, a, http.MethodPost, "/users/register", "", map[string]string{
		"name": name, "email": email, "password": "Passw0rd!", "role": role,
	}, nil); code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d", email, code)
	}
	var s session
	if code := call(t, a, http.MethodPost, "/users/login", "", map[string]string{
		"email": email, "password": "Passw0rd!",
	}, &s); code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d", email, code)
	}
	if s.Token == "" || s.User.ID == "" {
		t.Fatalf("login %s returned an incomplete session: %+v", email, s)
	}
	return s
}

func TestAccommodationLifecycle(t *testing.T) {
	a := newTestApp(t)
	host := signUp(t, a, "Host", "host@example.com", "host")
	guest := signUp(t, a, "Guest", "guest@example.com", "")

	var acc struct {
		ID    string `json:"id"`
		Owner string `json:"owner"`
		Name  string `json:"name"`
	}
	code := call(t, a, http.MethodPost, "/accommodations", host.Token, map[string]any{
		"name": "Cabin", "location": "Lake road 3", "city": "Bled", "pricePerNight": 95.5, "maxGuests": 4,
	}, &acc)
	if code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", code)
	}
	if acc.Owner != host.User.ID {
		t.Fatalf("expected owner %s, got %s", host.User.ID, acc.Owner)
	}

	var errBody struct {
		Message string `json:"message"`
	}
	path := "/accommodations/" + acc.ID
	if code := call(t, a, http.MethodPut, path, guest.Token, map[string]any{"name": "Mine now"}, &errBody); code != http.StatusForbidden {
		t.Fatalf("non-owner update: expected 403, got %d", code)
	}
	if errBody.Message == "" {
		t.Fatal("expected an error message in the body")
	}

	if code := call(t, a, http.MethodPut, path, host.Token, map[string]any{"name": "Cabin by the lake"}, &acc); code != http.StatusOK {
		t.Fatalf("owner update: expected 200, got %d", code)
	}
	if acc.Name != "Cabin by the lake" {
		t.Fatalf("expected updated name, got %q", acc.Name)
	}

	var found []map[string]any
	if code := call(t, a, http.MethodGet, "/accommodations/search?city=bled&maxPrice=100", "", nil, &found); code != http.StatusOK || len(found) != 1 {
		t.Fatalf("search: expected one result with 200, got %d results and %d", len(found), code)
	}

	if code := call(t, a, http.MethodDelete, path, guest.Token, nil, nil); code != http.StatusForbidden {
		t.Fatalf("non-owner delete: expected 403, got %d", code)
	}
	if code := call(t, a, http.MethodDelete, path, host.Token, nil, nil); code != http.StatusNoContent {
		t.Fatalf("owner delete: expected 204, got %d", code)
	}
	if code := call(t, a, http.MethodGet, path, "", nil, nil); code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", code)
	}
}

func TestBookingFlow(t *testing.T) {
	a := newTestApp(t)
	host := signUp(t, a, "Host", "host@example.com", "host")
	guest := signUp(t, a, "Guest", "guest@example.com", "")

	var acc struct {
		ID string `json:"id"`
	}
	call(t, a, http.MethodPost, "/accommodations", host.Token, map[string]any{
		"name": "Studio", "location": "Main st 1", "pricePerNight": 50, "maxGuests": 2,
	}, &acc)

	var booking struct {
		ID         string  `json:"id"`
		TotalPrice float64 `json:"totalPrice"`
		Status     string  `json:"status"`
	}
	code := call(t, a, http.MethodPost, "/bookings", guest.Token, map[string]any{
		"accommodation": acc.ID, "startDate": "2031-03-01", "endDate": "2031-03-04", "guests": 2,
	}, &booking)
	if code != http.StatusCreated {
		t.Fatalf("create booking: expected 201, got %d", code)
	}
	if booking.TotalPrice != 150 || booking.Status != "confirmed" {
		t.Fatalf("unexpected booking: %+v", booking)
	}

	var conflict struct {
		Message string `json:"message"`
	}
	code = call(t, a, http.MethodPost, "/bookings", host.Token, map[string]any{
		"accommodation": acc.ID, "startDate": "2031-03-03", "endDate": "2031-03-05", "guests": 1,
	}, &conflict)
	if code != http.StatusBadRequest || conflict.Message == "" {
		t.Fatalf("overlapping booking: expected 400 with message, got %d %+v", code, conflict)
	}

	if code := call(t, a, http.MethodGet, "/bookings/"+booking.ID, host.Token, nil, nil); code != http.StatusForbidden {
		t.Fatalf("foreign booking: expected 403, got %d", code)
	}
	if code := call(t, a, http.MethodGet, "/bookings", "", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous list: expected 401, got %d", code)
	}
}

func TestMessaging(t *testing.T) {
	a := newTestApp(t)
	alice := signUp(t, a, "Alice", "alice@example.com", "")
	bob := signUp(t, a, "Bob", "bob@example.com", "")

	type message struct {
		ID      string `json:"id"`
		Content string `json:"content"`
	}
	var first message
	for _, text := range []string{"hi bob", "are you there?"} {
		var m message
		if code := call(t, a, http.MethodPost, "/messages", alice.Token, map[string]string{
			"recipientId": bob.User.ID, "content": text,
		}, &m); code != http.StatusCreated {
			t.Fatalf("send: expected 201, got %d", code)
		}
		if first.ID == "" {
			first = m
		}
	}

	var conv []message
	if code := call(t, a, http.MethodGet, "/messages/conversation/"+alice.User.ID, bob.Token, nil, &conv); code != http.StatusOK {
		t.Fatalf("conversation: expected 200, got %d", code)
	}
	if len(conv) != 2 || conv[0].Content != "hi bob" || conv[1].Content != "are you there?" {
		t.Fatalf("unexpected conversation: %+v", conv)
	}

	if code := call(t, a, http.MethodDelete, "/messages/"+first.ID, bob.Token, nil, nil); code != http.StatusForbidden {
		t.Fatalf("recipient delete: expected 403, got %d", code)
	}
	if code := call(t, a, http.MethodDelete, "/messages/"+first.ID, alice.Token, nil, nil); code != http.StatusOK {
		t.Fatalf("sender delete: expected 200, got %d", code)
	}

	conv = nil
	call(t, a, http.MethodGet, "/messages/conversation/"+alice.User.ID, bob.Token, nil, &conv)
	if len(conv) != 1 || conv[0].Content != "are you there?" {
		t.Fatalf("expected only the remaining message, got %+v", conv)
	}
}

func TestUsers_AuthErrors(t *testing.T) {
	a := newTestApp(t)
	user := signUp(t, a, "Ann", "ann@example.com", "")

	var body struct {
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
		Stack   string   `json:"stack"`
	}
	if code := call(t, a, http.MethodGet, "/users", user.Token, nil, &body); code != http.StatusForbidden {
		t.Fatalf("admin route: expected 403, got %d", code)
	}
	if body.Message == "" || body.Stack == "" {
		t.Fatalf("expected message and stack outside production, got %+v", body)
	}

	body.Errors = nil
	code := call(t, a, http.MethodPost, "/users/register", "", map[string]string{
		"name": "Weak", "email": "weak@example.com", "password": "short",
	}, &body)
	if code != http.StatusBadRequest || len(body.Errors) != 1 || !strings.Contains(body.Errors[0], "password") {
		t.Fatalf("weak password: expected 400 with one password error, got %d %+v", code, body)
	}

	if code := call(t, a, http.MethodGet, "/users/me", "not-a-token", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", code)
	}

	if code := call(t, a, http.MethodDelete, "/users/me", user.Token, nil, nil); code != http.StatusOK {
		t.Fatalf("delete account: expected 200, got %d", code)
	}
	if code := call(t, a, http.MethodGet, "/users/me", user.Token, nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("token of deleted user: expected 401, got %d", code)
	}
}

func TestOperationalEndpoints(t *testing.T) {
	a := newTestApp(t)

	var ready struct {
		Status       string         `json:"status"`
		Dependencies map[string]any `json:"dependencies"`
	}
	if code := call(t, a, http.MethodGet, "/health/ready", "", nil, &ready); code != http.StatusOK {
		t.Fatalf("readiness: expected 200, got %d", code)
	}
	if _, ok := ready.Dependencies["store"]; !ok || ready.Status != "ok" {
		t.Fatalf("expected the store to be checked, got %+v", ready)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "marketplace_http_requests_total") {
		t.Fatalf("metrics: expected request counter to be exported, got %d", rec.Code)
	}
}

func TestNew_RejectsUnknownStore(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s", TokenTTL: time.Hour, Store: "sqlite"}
	if _, err := New(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected an error for an unknown store")
	}
}

func TestReviewsAndWishlist(t *testing.T) {
	a := newTestApp(t)
	host := signUp(t, a, "Host", "host@example.com", "host")
	guest := signUp(t, a, "Guest", "guest@example.com", "")

	var acc struct {
		ID string `json:"id"`
	}
	call(t, a, http.MethodPost, "/accommodations", host.Token, map[string]any{
		"name": "Barn", "location": "Field 2", "pricePerNight": 40, "maxGuests": 6,
	}, &acc)

	var review struct {
		ID     string `json:"id"`
		Rating int    `json:"rating"`
	}
	if code := call(t, a, http.MethodPost, "/reviews", guest.Token, map[string]any{
		"accommodation": acc.ID, "rating": 5, "comment": "great",
	}, &review); code != http.StatusCreated {
		t.Fatalf("create review: expected 201, got %d", code)
	}
	if code := call(t, a, http.MethodPost, "/reviews", guest.Token, map[string]any{
		"accommodation": acc.ID, "rating": 4,
	}, nil); code != http.StatusBadRequest {
		t.Fatalf("second review: expected 400, got %d", code)
	}
	if code := call(t, a, http.MethodPut, "/reviews/"+review.ID, host.Token, map[string]any{"rating": 1}, nil); code != http.StatusForbidden {
		t.Fatalf("foreign review update: expected 403, got %d", code)
	}

	var reviews []map[string]any
	if code := call(t, a, http.MethodGet, "/reviews?accommodation="+acc.ID, "", nil, &reviews); code != http.StatusOK || len(reviews) != 1 {
		t.Fatalf("list reviews: expected one review with 200, got %d results and %d", len(reviews), code)
	}

	var item struct {
		ID string `json:"id"`
	}
	if code := call(t, a, http.MethodPost, "/wishlist", guest.Token, map[string]string{"accommodation": acc.ID}, &item); code != http.StatusCreated {
		t.Fatalf("add to wishlist: expected 201, got %d", code)
	}
	if code := call(t, a, http.MethodPost, "/wishlist", guest.Token, map[string]string{"accommodation": acc.ID}, nil); code != http.StatusBadRequest {
		t.Fatalf("duplicate wishlist item: expected 400, got %d", code)
	}
	if code := call(t, a, http.MethodDelete, "/wishlist/"+item.ID, host.Token, nil, nil); code != http.StatusForbidden {
		t.Fatalf("foreign wishlist delete: expected 403, got %d", code)
	}
	if code := call(t, a, http.MethodDelete, "/wishlist/"+item.ID, guest.Token, nil, nil); code != http.StatusOK {
		t.Fatalf("wishlist delete: expected 200, got %d", code)
	}
}
