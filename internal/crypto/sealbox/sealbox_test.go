package sealbox

import (
	"bytes"
	"testing"
)

func TestRand_LengthUniq(t *testing.T) {
	t.Parallel()
	a, err := Rand(48)
	if err != nil {
		t.Fatalf("Rand: %v", err)
	}
	if len(a) != 48 {
		t.Fatalf("len=%d, want=48", len(a))
	}
	b, _ := Rand(48)
	if bytes.Equal(a, b) {
		t.Fatalf("Rand produced equal slices")
	}
}

func TestDeriveKey_PurposeBound(t *testing.T) {
	t.Parallel()
	master, _ := NewKey()
	k1, err := DeriveKey(master, "session")
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	k2, _ := DeriveKey(master, "session")
	k3, _ := DeriveKey(master, "other")
	if !bytes.Equal(k1, k2) {
		t.Fatalf("DeriveKey not deterministic")
	}
	if bytes.Equal(k1, k3) {
		t.Fatalf("keys for different purposes must differ")
	}
	if _, err := DeriveKey([]byte("short"), "session"); err == nil {
		t.Fatalf("short master key must fail")
	}
}

func TestSealOpen(t *testing.T) {
	t.Parallel()
	key, _ := NewKey()
	aad := []byte("uid-1")
	msg := []byte(`{"uid":"uid-1"}`)

	blob, err := Seal(key, aad, msg)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	out, err := Open(key, aad, blob)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(out, msg) {
		t.Fatalf("roundtrip mismatch")
	}

	if _, err := Open(key, []byte("uid-2"), blob); err == nil {
		t.Fatalf("Open with wrong aad must fail")
	}
	other, _ := NewKey()
	if _, err := Open(other, aad, blob); err == nil {
		t.Fatalf("Open with wrong key must fail")
	}
	blob[len(blob)-1] ^= 1
	if _, err := Open(key, aad, blob); err == nil {
		t.Fatalf("tampered blob must fail")
	}
	if _, err := Open(key, aad, []byte{1, 2}); err != ErrShort {
		t.Fatalf("want ErrShort, got %v", err)
	}
}
