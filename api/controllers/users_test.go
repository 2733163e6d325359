package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/osgiliath-dev/tradepost/internal/inventory"
	"github.com/osgiliath-dev/tradepost/internal/users"
	"github.com/osgiliath-dev/tradepost/pkg/db/models"
	pkgerrors "github.com/osgiliath-dev/tradepost/pkg/errors"
)

type stubUsersService struct {
	user *users.UserDTO
	list []users.UserDTO
	err  error
}

func (s stubUsersService) Create(context.Context, users.CreateUserDTO) (*users.UserDTO, error) {
	return s.user, s.err
}

func (s stubUsersService) Get(context.Context, uuid.UUID) (*users.UserDTO, error) {
	return s.user, s.err
}

func (s stubUsersService) List(context.Context) ([]users.UserDTO, error) {
	return s.list, s.err
}

type stubInventoryService struct {
	rows []models.InventoryItem
	err  error
}

func (s stubInventoryService) Quantity(context.Context, uuid.UUID, string) (int, error) {
	return 0, s.err
}

func (s stubInventoryService) List(context.Context, uuid.UUID) ([]models.InventoryItem, error) {
	return s.rows, s.err
}

func (s stubInventoryService) ListAll(context.Context) ([]models.InventoryItem, error) {
	return s.rows, s.err
}

func (s stubInventoryService) Adjust(context.Context, uuid.UUID, string, int) error {
	return s.err
}

func TestUserCreateSuccess(t *testing.T) {
	dto := &users.UserDTO{ID: uuid.New(), Username: "gimli", Race: "dwarf"}
	handler := UserCreate(stubUsersService{user: dto}, nil)

	body := bytes.NewBufferString(`{"username":"gimli","race":"dwarf"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", body)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}

	var envelope struct {
		Data users.UserDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Username != "gimli" {
		t.Fatalf("expected username gimli got %s", envelope.Data.Username)
	}
}

func TestUserCreateMissingFields(t *testing.T) {
	handler := UserCreate(stubUsersService{}, nil)

	body := bytes.NewBufferString(`{"username":"gimli"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", body)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	handler := UserCreate(stubUsersService{err: pkgerrors.New(pkgerrors.CodeConflict, "username already taken")}, nil)

	body := bytes.NewBufferString(`{"username":"gimli","race":"dwarf"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", body)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestUserGetInvalidID(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1/users/{userId}", UserGet(stubUsersService{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestUserGetNotFound(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1/users/{userId}", UserGet(stubUsersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "user not found")}, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestUserInventorySuccess(t *testing.T) {
	userID := uuid.New()
	rows := []models.InventoryItem{
		{ID: uuid.New(), UserID: userID, ItemName: "axe", Quantity: 5},
		{ID: uuid.New(), UserID: userID, ItemName: "bow", Quantity: 0},
	}
	r := chi.NewRouter()
	r.Get("/api/v1/users/{userId}/inventory", UserInventory(
		stubUsersService{user: &users.UserDTO{ID: userID, Username: "legolas", Race: "elf"}},
		stubInventoryService{rows: rows},
		nil,
	))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+userID.String()+"/inventory", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data []inventory.ItemDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 rows got %d", len(envelope.Data))
	}
	if envelope.Data[1].Quantity != 0 {
		t.Fatalf("expected zero row to be listed, got quantity %d", envelope.Data[1].Quantity)
	}
}

func TestUserInventoryUnknownUser(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1/users/{userId}/inventory", UserInventory(
		stubUsersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "user not found")},
		stubInventoryService{},
		nil,
	))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+uuid.NewString()+"/inventory", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
