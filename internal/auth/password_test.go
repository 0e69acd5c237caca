package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("pw", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "pw" {
		t.Fatal("expected password to be hashed")
	}
	if !CheckPassword(hash, "pw") {
		t.Error("expected correct password to match")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected wrong password not to match")
	}
}

func TestHashPassword_InvalidCostFallsBack(t *testing.T) {
	hash, err := HashPassword("pw", 0)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want %d", cost, bcrypt.DefaultCost)
	}
}

func TestCheckPassword_GarbageHash(t *testing.T) {
	if CheckPassword("not-a-bcrypt-hash", "pw") {
		t.Error("garbage hash must never match")
	}
}
