package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	clienterrors "github.com/townpass/roadwatch/client/internal/errors"
	"github.com/townpass/roadwatch/client/internal/types"
)

func TestListUsers_Success(t *testing.T) {
	t.Parallel()
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/users" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusOK, `[{"id":1,"name":"alice"},{"id":2,"name":"bob"}]`)
	})

	users, err := ListUsers(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("ListUsers error: %v", err)
	}
	if len(users) != 2 || users[1].Name != "bob" {
		t.Fatalf("unexpected users %+v", users)
	}
}

func TestCreateUser_Success(t *testing.T) {
	t.Parallel()
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/users" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var got types.CreateUserRequest
		_ = json.NewDecoder(r.Body).Decode(&got)
		b, _ := json.Marshal(types.User{ID: 3, Name: got.Name})
		writeJSON(w, http.StatusOK, string(b))
	})

	u, err := CreateUser(context.Background(), srv.Client(), srv.URL, types.CreateUserRequest{Name: "carol"})
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if u.ID != 3 || u.Name != "carol" {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestCreateUser_ValidationDetail(t *testing.T) {
	t.Parallel()
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, `{"detail":"name must not be empty"}`)
	})

	_, err := CreateUser(context.Background(), srv.Client(), srv.URL, types.CreateUserRequest{})
	if err == nil || err.Error() != "name must not be empty" {
		t.Fatalf("expected server detail, got %v", err)
	}
	var ce *clienterrors.ClassifiedError
	if !errors.As(err, &ce) || ce.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected classified 422, got %#v", err)
	}
}

func TestUsers_HTTPDoError(t *testing.T) {
	t.Parallel()
	hc := &http.Client{Transport: &errRT{}}
	if _, err := ListUsers(context.Background(), hc, "http://example.com"); err == nil {
		t.Fatal("expected Do error for ListUsers")
	}
	_, err := CreateUser(context.Background(), hc, "http://example.com", types.CreateUserRequest{Name: "x"})
	if err == nil || clienterrors.IsIrrecoverable(err) {
		t.Fatalf("expected recoverable network error, got %v", err)
	}
}
