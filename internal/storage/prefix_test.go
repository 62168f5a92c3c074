package storage

import (
	"bytes"
	"errors"
	"testing"
)

func TestPrefixDB(t *testing.T) {
	inner := NewMemory()
	defer inner.Close()

	db := NewPrefixDB(inner, []byte("wallet/main/"))
	testDB(t, db)
}

func TestPrefixDB_Isolation(t *testing.T) {
	inner := NewMemory()
	defer inner.Close()

	a := NewPrefixDB(inner, []byte("wallet/a/"))
	b := NewPrefixDB(inner, []byte("wallet/b/"))

	if err := a.Put([]byte("seed"), []byte("seed-a")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if err := b.Put([]byte("seed"), []byte("seed-b")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, err := a.Get([]byte("seed"))
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !bytes.Equal(got, []byte("seed-a")) {
		t.Errorf("wallet a sees %q, want %q", got, "seed-a")
	}

	// The inner DB stores the fully prefixed key.
	raw, err := inner.Get([]byte("wallet/b/seed"))
	if err != nil {
		t.Fatalf("inner Get() error: %v", err)
	}
	if !bytes.Equal(raw, []byte("seed-b")) {
		t.Errorf("inner key = %q, want %q", raw, "seed-b")
	}
}

func TestPrefixDB_ForEachStripsPrefix(t *testing.T) {
	inner := NewMemory()
	defer inner.Close()

	db := NewPrefixDB(inner, []byte("wallet/main/"))
	db.Put([]byte("acct/0"), []byte("a"))
	db.Put([]byte("acct/1"), []byte("b"))

	// A sibling namespace must not leak into iteration.
	other := NewPrefixDB(inner, []byte("wallet/other/"))
	other.Put([]byte("acct/0"), []byte("x"))

	var keys []string
	err := db.ForEach([]byte("acct/"), func(key, _ []byte) error {
		keys = append(keys, string(key))
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach() error: %v", err)
	}

	if len(keys) != 2 {
		t.Fatalf("ForEach() visited %d keys, want 2: %v", len(keys), keys)
	}
	for _, k := range keys {
		if k != "acct/0" && k != "acct/1" {
			t.Errorf("unexpected key %q, prefix should be stripped", k)
		}
	}
}

func TestPrefixDB_DeleteAll(t *testing.T) {
	inner := NewMemory()
	defer inner.Close()

	db := NewPrefixDB(inner, []byte("wallet/doomed/"))
	db.Put([]byte("seed"), []byte("s"))
	db.Put([]byte("acct/0"), []byte("a"))

	survivor := NewPrefixDB(inner, []byte("wallet/kept/"))
	survivor.Put([]byte("seed"), []byte("s"))

	if err := db.DeleteAll(); err != nil {
		t.Fatalf("DeleteAll() error: %v", err)
	}

	if ok, _ := db.Has([]byte("seed")); ok {
		t.Error("namespace should be empty after DeleteAll()")
	}
	if ok, _ := survivor.Has([]byte("seed")); !ok {
		t.Error("sibling namespace should survive DeleteAll()")
	}
}

func TestPrefixDB_GetMissing(t *testing.T) {
	inner := NewMemory()
	defer inner.Close()

	db := NewPrefixDB(inner, []byte("wallet/main/"))
	if _, err := db.Get([]byte("missing")); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get() error = %v, want ErrKeyNotFound", err)
	}
}
