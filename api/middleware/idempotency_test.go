package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	pkgredis "github.com/osgiliath-dev/tradepost/pkg/redis"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	str, _ := value.(string)
	f.data[key] = str
	return nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

// mountIdempotent wires the middleware the way the production router does:
// inside the /api/v1 subrouter, ahead of the leaf routes.
func mountIdempotent(store pkgredis.IdempotencyStore, handler http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Idempotency(store, nil))
		r.Get("/users", handler)
		r.Post("/users", handler)
		r.Get("/inventory", handler)
		r.Get("/offers", handler)
		r.Post("/offers", handler)
		r.Post("/offers/{offerId}/respond", handler)
	})
	return r
}

func TestRouteTTLSelection(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		want   time.Duration
		ok     bool
	}{
		{"user create", http.MethodPost, "/api/v1/users", defaultIdempotencyTTL, true},
		{"offer propose", http.MethodPost, "/api/v1/offers", criticalIdempotencyTTL, true},
		{"offer respond", http.MethodPost, "/api/v1/offers/abc/respond", criticalIdempotencyTTL, true},
		{"offer read", http.MethodGet, "/api/v1/offers", 0, false},
		{"inventory read", http.MethodGet, "/api/v1/inventory", 0, false},
	}

	for _, tt := range tests {
		ttl, ok := routeTTL(tt.method, tt.path)
		if ok != tt.ok {
			t.Fatalf("%s: expected ok=%v got %v", tt.name, tt.ok, ok)
		}
		if ok && ttl != tt.want {
			t.Fatalf("%s: expected ttl=%v got %v", tt.name, tt.want, ttl)
		}
	}
}

func TestIdempotencyMiddlewareHeaderIsOptional(t *testing.T) {
	store := newFakeStore()
	var calls int
	router := mountIdempotent(store, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/offers", strings.NewReader(`{"foo":"bar"}`))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d", resp.Code)
		}
	}

	if calls != 2 {
		t.Fatalf("handler executed %d times, expected 2 without a key", calls)
	}
	if len(store.data) != 0 {
		t.Fatalf("nothing should be stored without a key")
	}
}

func TestIdempotencyMiddlewareReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	var calls int
	router := mountIdempotent(store, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers", strings.NewReader(`{"foo":"bar"}`))
	req.Header.Set("Idempotency-Key", "abc")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected first response 201 got %d", resp.Code)
	}
	if len(store.data) != 1 {
		t.Fatalf("expected one stored record, got %d", len(store.data))
	}

	replay := httptest.NewRequest(http.MethodPost, "/api/v1/offers", strings.NewReader(`{"foo":"bar"}`))
	replay.Header.Set("Idempotency-Key", "abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, replay)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected replay status 201 got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected content-type header preserved")
	}
	if strings.TrimSpace(rec.Body.String()) != `{"ok":true}` {
		t.Fatalf("expected stored body got %s", rec.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler executed %d times, expected 1", calls)
	}
}

func TestIdempotencyMiddlewareCoversRespondRoute(t *testing.T) {
	store := newFakeStore()
	var calls int
	router := mountIdempotent(store, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/offers/1f6bce94-3f4a-4a25-a7b9-1f4f6d9ad8f0/respond", strings.NewReader(`{"response":"accept"}`))
		req.Header.Set("Idempotency-Key", "resp-1")
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	if calls != 1 {
		t.Fatalf("handler executed %d times, expected the second call replayed", calls)
	}
	if len(store.data) != 1 {
		t.Fatalf("expected one stored record, got %d", len(store.data))
	}
}

func TestIdempotencyMiddlewareDetectsBodyChange(t *testing.T) {
	store := newFakeStore()
	router := mountIdempotent(store, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	first := httptest.NewRequest(http.MethodPost, "/api/v1/offers", strings.NewReader(`{"foo":"bar"}`))
	first.Header.Set("Idempotency-Key", "abc")
	router.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/offers", strings.NewReader(`{"foo":"changed"}`))
	second.Header.Set("Idempotency-Key", "abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, second)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on reused key with new body, got %d", rec.Code)
	}
}

func TestIdempotencyMiddlewareSkipsUnlistedRoutes(t *testing.T) {
	store := newFakeStore()
	var calls int
	router := mountIdempotent(store, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Idempotency-Key", "abc")
	router.ServeHTTP(httptest.NewRecorder(), req)

	if calls != 1 {
		t.Fatalf("expected handler to run")
	}
	if len(store.data) != 0 {
		t.Fatalf("reads must not be recorded")
	}
}
