package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestGetAllProjectsUsers(t *testing.T) {
	users := newFakeUserStore()
	ctx := context.Background()
	if _, err := users.CreateUser(ctx, "username1", "one@gmail.com", "hash1"); err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if _, err := users.CreateUser(ctx, "username2", "two@gmail.com", "hash2"); err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}

	svc := NewUserService(users)
	projections, total, err := svc.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll error: %v", err)
	}
	if total != 2 || len(projections) != 2 {
		t.Fatalf("expected 2 users, got total=%d len=%d", total, len(projections))
	}
	if projections[0].Username != "username1" || projections[1].Username != "username2" {
		t.Fatalf("unexpected order: %+v", projections)
	}

	// The serialized projection must not carry anything password related.
	raw, err := json.Marshal(projections)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if strings.Contains(strings.ToLower(string(raw)), "password") || strings.Contains(string(raw), "hash1") {
		t.Fatalf("projection leaked password data: %s", raw)
	}
}

func TestGetAllEmpty(t *testing.T) {
	svc := NewUserService(newFakeUserStore())
	projections, total, err := svc.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll error: %v", err)
	}
	if total != 0 || len(projections) != 0 {
		t.Fatalf("expected empty list, got total=%d %+v", total, projections)
	}
}
