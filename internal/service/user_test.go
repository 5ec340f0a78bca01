package service

import (
	"context"
	"errors"
	"testing"

	"github.com/myboulders/api/internal/apperror"
	"github.com/myboulders/api/internal/model"
)

func newTestUserService(t *testing.T) (*UserService, *mockUserRepo) {
	t.Helper()
	repo := newMockUserRepo()
	return NewUserService(repo, testLogger(t)), repo
}

func seedUser(t *testing.T, repo *mockUserRepo, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
	}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("setup: CreateUser() error = %v", err)
	}
	return user
}

func TestUserSearch_ByUsername(t *testing.T) {
	svc, repo := newTestUserService(t)
	seedUser(t, repo, "alice")

	found, err := svc.Search(context.Background(), "", "alice")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if found.Username != "alice" {
		t.Errorf("Username = %q, want alice", found.Username)
	}
}

func TestUserSearch_UsernameWinsOverID(t *testing.T) {
	svc, repo := newTestUserService(t)
	alice := seedUser(t, repo, "alice")
	seedUser(t, repo, "bob")

	// Both parameters present: the username is authoritative.
	found, err := svc.Search(context.Background(), alice.ID, "bob")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if found.Username != "bob" {
		t.Errorf("Username = %q, want bob (username takes priority)", found.Username)
	}
}

func TestUserSearch_NoParameters(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Search(context.Background(), "", "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestUserSearch_NotFound(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Search(context.Background(), "", "ghost")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUserDelete_ByUsername(t *testing.T) {
	svc, repo := newTestUserService(t)
	alice := seedUser(t, repo, "alice")

	if err := svc.Delete(context.Background(), "", "alice"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetUserByID(context.Background(), alice.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("user still present after delete: %v", err)
	}
}

func TestUserDelete_NotFound(t *testing.T) {
	svc, _ := newTestUserService(t)

	err := svc.Delete(context.Background(), "ghost-id", "")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
