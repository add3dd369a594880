package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	klog "github.com/upow-network/upow-wallet/internal/log"
	"github.com/upow-network/upow-wallet/internal/storage"
	"github.com/upow-network/upow-wallet/pkg/crypto"
	"github.com/upow-network/upow-wallet/pkg/types"
)

var keyPrefix = []byte("key/")

// keyRecord is the stored form of a key.
type keyRecord struct {
	Version   int       `json:"version"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"created_at"`
	Sealed    []byte    `json:"sealed"`
}

// KeyEntry describes a stored key without its secret.
type KeyEntry struct {
	Name      string
	Address   string
	Format    types.AddressFormat
	CreatedAt time.Time
}

// Keystore keeps private keys encrypted in a key-value database.
type Keystore struct {
	db     storage.DB
	owned  storage.DB
	params EncryptionParams
	log    zerolog.Logger
}

// NewKeystore creates a keystore inside db. The caller owns db.
func NewKeystore(db storage.DB, params EncryptionParams) *Keystore {
	return &Keystore{
		db:     storage.Bucket(db, "keystore"),
		params: params,
		log:    klog.Keystore,
	}
}

// OpenKeystore opens the Badger-backed keystore in dir.
func OpenKeystore(dir string, params EncryptionParams) (*Keystore, error) {
	db, err := storage.NewBadger(dir)
	if err != nil {
		return nil, err
	}
	ks := NewKeystore(db, params)
	ks.owned = db
	return ks, nil
}

// Close releases the database if the keystore opened it.
func (ks *Keystore) Close() error {
	if ks.owned != nil {
		return ks.owned.Close()
	}
	return nil
}

func recordKey(name string) []byte {
	return append(append([]byte{}, keyPrefix...), name...)
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, "/ \t\n") {
		return fmt.Errorf("invalid key name %q", name)
	}
	return nil
}

// Import stores key under name, encrypted with password.
func (ks *Keystore) Import(name string, key *crypto.PrivateKey, password []byte, format types.AddressFormat) (*KeyEntry, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	addr, err := key.Address(format)
	if err != nil {
		return nil, err
	}

	secret := key.Serialize()
	sealed, err := Encrypt(secret, password, ks.params)
	wipe(secret)
	if err != nil {
		return nil, fmt.Errorf("encrypt key: %w", err)
	}

	rec := keyRecord{
		Version:   1,
		Name:      name,
		Address:   addr,
		Format:    format.String(),
		CreatedAt: time.Now().UTC(),
		Sealed:    sealed,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}
	err = ks.db.PutNew(recordKey(name), data)
	if errors.Is(err, storage.ErrExists) {
		return nil, fmt.Errorf("%w: %s", ErrKeyExists, name)
	}
	if err != nil {
		return nil, fmt.Errorf("store key: %w", err)
	}
	ks.log.Info().Str("name", name).Str("address", addr).Msg("key stored")
	entry := rec.entry()
	return &entry, nil
}

// Load decrypts the key stored under name.
func (ks *Keystore) Load(name string, password []byte) (*crypto.PrivateKey, error) {
	rec, err := ks.read(name)
	if err != nil {
		return nil, err
	}
	secret, err := Decrypt(rec.Sealed, password)
	if err != nil {
		return nil, fmt.Errorf("key %s: %w", name, err)
	}
	defer wipe(secret)
	return crypto.PrivateKeyFromBytes(secret)
}

// Get returns the public description of the key stored under name.
func (ks *Keystore) Get(name string) (*KeyEntry, error) {
	rec, err := ks.read(name)
	if err != nil {
		return nil, err
	}
	entry := rec.entry()
	return &entry, nil
}

// List returns all stored keys ordered by name.
func (ks *Keystore) List() ([]KeyEntry, error) {
	var entries []KeyEntry
	err := ks.db.ForEach(keyPrefix, func(_, value []byte) error {
		rec, err := decodeRecord(value)
		if err != nil {
			return err
		}
		entries = append(entries, rec.entry())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return entries, nil
}

// Delete removes the key stored under name.
func (ks *Keystore) Delete(name string) error {
	err := ks.db.Delete(recordKey(name))
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("delete key: %w", err)
	}
	ks.log.Info().Str("name", name).Msg("key deleted")
	return nil
}

func (ks *Keystore) read(name string) (*keyRecord, error) {
	data, err := ks.db.Get(recordKey(name))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}
	return decodeRecord(data)
}

func decodeRecord(data []byte) (*keyRecord, error) {
	var rec keyRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse key: %w", err)
	}
	if rec.Version != 1 {
		return nil, fmt.Errorf("unsupported key version: %d", rec.Version)
	}
	return &rec, nil
}

func (r *keyRecord) entry() KeyEntry {
	format, err := types.ParseAddressFormat(r.Format)
	if err != nil {
		format = types.AddressCompressed
	}
	return KeyEntry{Name: r.Name, Address: r.Address, Format: format, CreatedAt: r.CreatedAt}
}
