package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	klog "github.com/upow-network/upow-wallet/internal/log"
)

// BadgerDB implements DB using Badger.
type BadgerDB struct {
	db *badger.DB
}

// keystoreOptions tunes Badger for a handful of small, rarely written
// records.
func keystoreOptions(opts badger.Options) badger.Options {
	return opts.
		WithLogger(badgerLogger{klog.Storage}).
		WithSyncWrites(true).
		WithNumVersionsToKeep(1).
		WithValueLogFileSize(1 << 20).
		WithCompactL0OnClose(true)
}

// NewBadger opens (or creates) a Badger database in dir.
func NewBadger(dir string) (*BadgerDB, error) {
	db, err := badger.Open(keystoreOptions(badger.DefaultOptions(dir)))
	if err != nil {
		if strings.Contains(err.Error(), "Cannot acquire directory lock") {
			return nil, fmt.Errorf("keystore at %s is in use by another upow-wallet process: %w", dir, err)
		}
		return nil, fmt.Errorf("open keystore at %s: %w", dir, err)
	}
	return &BadgerDB{db: db}, nil
}

func notFound(err error) error {
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

// Get returns a copy of the value stored under key.
func (b *BadgerDB) Get(key []byte) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return notFound(err)
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	return val, err
}

// Put stores value under key, replacing any previous value.
func (b *BadgerDB) Put(key, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// PutNew stores value under key unless the key exists. Concurrent
// writers conflict and one of them gets badger.ErrConflict.
func (b *BadgerDB) PutNew(key, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		switch {
		case err == nil:
			return ErrExists
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		return txn.Set(key, value)
	})
}

// Delete removes key.
func (b *BadgerDB) Delete(key []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return notFound(err)
		}
		return txn.Delete(key)
	})
}

// Has reports whether key exists.
func (b *BadgerDB) Has(key []byte) (bool, error) {
	_, err := b.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// ForEach visits keys with prefix in key order.
func (b *BadgerDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := fn(item.KeyCopy(nil), val); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close flushes and closes the database.
func (b *BadgerDB) Close() error {
	return b.db.Close()
}

// badgerLogger forwards Badger's internal messages to the storage logger.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msgf(strings.TrimSpace(format), args...)
}
