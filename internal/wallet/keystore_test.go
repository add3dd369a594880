package wallet

import (
	"errors"
	"testing"

	"github.com/upow-network/upow-wallet/internal/storage"
	"github.com/upow-network/upow-wallet/pkg/types"
)

func testDB(t *testing.T) storage.DB {
	t.Helper()
	db, err := storage.NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testKeystore(t *testing.T) *Keystore {
	t.Helper()
	return NewKeystore(testDB(t), fastParams())
}

func TestKeystore_ImportAndLoad(t *testing.T) {
	ks := testKeystore(t)
	key := testKey(t, 0xA11CE)
	password := []byte("test-password")

	entry, err := ks.Import("main", key, password, types.AddressCompressed)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if entry.Address != testAddress(t, key) {
		t.Errorf("address = %s, want %s", entry.Address, testAddress(t, key))
	}

	loaded, err := ks.Load("main", password)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Int().Cmp(key.Int()) != 0 {
		t.Error("loaded key does not match original")
	}
}

func TestKeystore_WrongPassword(t *testing.T) {
	ks := testKeystore(t)
	if _, err := ks.Import("main", testKey(t, 7), []byte("right"), types.AddressCompressed); err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	_, err := ks.Load("main", []byte("wrong"))
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("Load() error = %v, want ErrWrongPassword", err)
	}
}

func TestKeystore_Duplicate(t *testing.T) {
	ks := testKeystore(t)
	if _, err := ks.Import("dup", testKey(t, 1), []byte("p"), types.AddressCompressed); err != nil {
		t.Fatalf("first Import() error: %v", err)
	}
	_, err := ks.Import("dup", testKey(t, 2), []byte("p"), types.AddressCompressed)
	if !errors.Is(err, ErrKeyExists) {
		t.Fatalf("second Import() error = %v, want ErrKeyExists", err)
	}
}

func TestKeystore_InvalidName(t *testing.T) {
	ks := testKeystore(t)
	for _, name := range []string{"", "a/b", "has space"} {
		if _, err := ks.Import(name, testKey(t, 1), []byte("p"), types.AddressCompressed); err == nil {
			t.Errorf("Import(%q) should fail", name)
		}
	}
}

func TestKeystore_ListAndGet(t *testing.T) {
	ks := testKeystore(t)
	for i, name := range []string{"charlie", "alice", "bob"} {
		format := types.AddressCompressed
		if name == "bob" {
			format = types.AddressFull
		}
		if _, err := ks.Import(name, testKey(t, int64(i+10)), []byte("p"), format); err != nil {
			t.Fatalf("Import(%s) error: %v", name, err)
		}
	}

	entries, err := ks.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	want := []string{"alice", "bob", "charlie"}
	if len(entries) != len(want) {
		t.Fatalf("List() = %d entries, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.Name != want[i] {
			t.Errorf("entry %d = %s, want %s", i, e.Name, want[i])
		}
	}

	bob, err := ks.Get("bob")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if bob.Format != types.AddressFull {
		t.Errorf("format = %s, want full", bob.Format)
	}
	if len(bob.Address) != 2*types.FullPointSize {
		t.Errorf("address length = %d, want %d", len(bob.Address), 2*types.FullPointSize)
	}
	if bob.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestKeystore_Delete(t *testing.T) {
	ks := testKeystore(t)
	if _, err := ks.Import("gone", testKey(t, 3), []byte("p"), types.AddressCompressed); err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if err := ks.Delete("gone"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := ks.Get("gone"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrKeyNotFound", err)
	}
	if err := ks.Delete("gone"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("second Delete() error = %v, want ErrKeyNotFound", err)
	}
}

func TestKeystore_SharesDatabase(t *testing.T) {
	db := testDB(t)
	if err := db.Put([]byte("key/other"), []byte("not a key record")); err != nil {
		t.Fatal(err)
	}
	ks := NewKeystore(db, fastParams())

	if _, err := ks.Import("main", testKey(t, 5), []byte("p"), types.AddressCompressed); err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	entries, err := ks.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("List() = %d entries, want 1", len(entries))
	}
}

func TestOpenKeystore_Persistence(t *testing.T) {
	dir := t.TempDir()
	key := testKey(t, 0xBEEF)

	ks, err := OpenKeystore(dir, fastParams())
	if err != nil {
		t.Fatalf("OpenKeystore() error: %v", err)
	}
	if _, err := ks.Import("main", key, []byte("p"), types.AddressCompressed); err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if err := ks.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	ks, err = OpenKeystore(dir, fastParams())
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer ks.Close()
	loaded, err := ks.Load("main", []byte("p"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Int().Cmp(key.Int()) != 0 {
		t.Error("persisted key does not match")
	}
}
