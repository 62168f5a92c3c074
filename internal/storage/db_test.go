package storage

import (
	"bytes"
	"errors"
	"testing"
)

// testDB runs the shared test suite against a DB implementation.
func testDB(t *testing.T, db DB) {
	t.Helper()

	t.Run("PutAndGet", func(t *testing.T) {
		if err := db.Put([]byte("wallet/main/seed"), []byte("ciphertext")); err != nil {
			t.Fatalf("Put() error: %v", err)
		}

		val, err := db.Get([]byte("wallet/main/seed"))
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if !bytes.Equal(val, []byte("ciphertext")) {
			t.Errorf("Get() = %q, want %q", val, "ciphertext")
		}
	})

	t.Run("GetNonexistent", func(t *testing.T) {
		_, err := db.Get([]byte("nonexistent"))
		if !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("Get() for missing key error = %v, want ErrKeyNotFound", err)
		}
	})

	t.Run("Has", func(t *testing.T) {
		db.Put([]byte("exists"), []byte("yes"))

		ok, err := db.Has([]byte("exists"))
		if err != nil {
			t.Fatalf("Has() error: %v", err)
		}
		if !ok {
			t.Error("Has() = false for existing key")
		}

		ok, err = db.Has([]byte("missing"))
		if err != nil {
			t.Fatalf("Has() error: %v", err)
		}
		if ok {
			t.Error("Has() = true for missing key")
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		db.Put([]byte("ow"), []byte("first"))
		db.Put([]byte("ow"), []byte("second"))

		val, err := db.Get([]byte("ow"))
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if !bytes.Equal(val, []byte("second")) {
			t.Errorf("Get() = %q, want %q", val, "second")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db.Put([]byte("gone"), []byte("soon"))
		if err := db.Delete([]byte("gone")); err != nil {
			t.Fatalf("Delete() error: %v", err)
		}

		ok, _ := db.Has([]byte("gone"))
		if ok {
			t.Error("Has() = true after Delete()")
		}
	})

	t.Run("DeleteNonexistent", func(t *testing.T) {
		if err := db.Delete([]byte("never-existed")); err != nil {
			t.Errorf("Delete() of missing key error: %v", err)
		}
	})

	t.Run("ForEachPrefix", func(t *testing.T) {
		db.Put([]byte("acct/0"), []byte("a"))
		db.Put([]byte("acct/1"), []byte("b"))
		db.Put([]byte("meta/created"), []byte("c"))

		seen := make(map[string]string)
		err := db.ForEach([]byte("acct/"), func(key, value []byte) error {
			seen[string(key)] = string(value)
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach() error: %v", err)
		}

		if len(seen) != 2 {
			t.Errorf("ForEach() visited %d keys, want 2", len(seen))
		}
		if seen["acct/0"] != "a" || seen["acct/1"] != "b" {
			t.Errorf("ForEach() visited %v", seen)
		}
	})

	t.Run("ForEachEarlyStop", func(t *testing.T) {
		db.Put([]byte("stop/0"), []byte("a"))
		db.Put([]byte("stop/1"), []byte("b"))

		stop := errors.New("stop")
		count := 0
		err := db.ForEach([]byte("stop/"), func(_, _ []byte) error {
			count++
			return stop
		})
		if !errors.Is(err, stop) {
			t.Errorf("ForEach() error = %v, want propagated stop error", err)
		}
		if count != 1 {
			t.Errorf("ForEach() continued after error, visited %d", count)
		}
	})
}

func TestMemoryDB(t *testing.T) {
	db := NewMemory()
	defer db.Close()
	testDB(t, db)
}

func TestBadgerDB(t *testing.T) {
	db, err := NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	defer db.Close()
	testDB(t, db)
}

func TestBadgerDB_Reopen(t *testing.T) {
	dir := t.TempDir()

	db, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	if err := db.Put([]byte("persistent"), []byte("value")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	db2, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger() reopen error: %v", err)
	}
	defer db2.Close()

	val, err := db2.Get([]byte("persistent"))
	if err != nil {
		t.Fatalf("Get() after reopen error: %v", err)
	}
	if !bytes.Equal(val, []byte("value")) {
		t.Errorf("Get() = %q, want %q", val, "value")
	}
}

func TestMemoryDB_GetReturnsCopy(t *testing.T) {
	db := NewMemory()
	defer db.Close()

	db.Put([]byte("k"), []byte("original"))
	val, err := db.Get([]byte("k"))
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	val[0] = 'X'

	again, err := db.Get([]byte("k"))
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !bytes.Equal(again, []byte("original")) {
		t.Error("mutating a returned value should not affect stored data")
	}
}
