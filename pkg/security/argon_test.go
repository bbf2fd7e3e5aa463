package security

import (
	"strings"
	"testing"
)

func TestGenerateAndVerify(t *testing.T) {
	t.Parallel()

	a := New()

	encoded, err := a.GenerateFromPassword("hunter22")
	if err != nil {
		t.Fatalf("GenerateFromPassword error: %v", err)
	}

	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("unexpected encoding: %q", encoded)
	}
	if strings.Contains(encoded, "hunter22") {
		t.Fatal("plaintext leaked into encoded hash")
	}

	ok, err := a.VerifyPasswd("hunter22", encoded)
	if err != nil {
		t.Fatalf("VerifyPasswd error: %v", err)
	}
	if !ok {
		t.Fatal("correct password didn't verify")
	}

	ok, err = a.VerifyPasswd("hunter23", encoded)
	if err != nil {
		t.Fatalf("VerifyPasswd error: %v", err)
	}
	if ok {
		t.Fatal("wrong password verified")
	}
}

func TestHashesAreSalted(t *testing.T) {
	t.Parallel()

	a := New()

	h1, err := a.GenerateFromPassword("hunter22")
	if err != nil {
		t.Fatalf("GenerateFromPassword error: %v", err)
	}
	h2, err := a.GenerateFromPassword("hunter22")
	if err != nil {
		t.Fatalf("GenerateFromPassword error: %v", err)
	}

	if h1 == h2 {
		t.Fatal("two hashes of the same password are identical, salt missing")
	}
}

func TestVerifyBadEncoding(t *testing.T) {
	t.Parallel()

	a := New()

	if _, err := a.VerifyPasswd("whatever", "garbage"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}
