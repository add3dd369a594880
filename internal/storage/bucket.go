package storage

// Bucket returns a view of db in which every key lives under name + "/".
// Keys passed to and returned from the view omit that prefix. Closing
// the view leaves db open.
func Bucket(db DB, name string) DB {
	return &bucket{db: db, prefix: []byte(name + "/")}
}

type bucket struct {
	db     DB
	prefix []byte
}

func (b *bucket) key(k []byte) []byte {
	full := make([]byte, 0, len(b.prefix)+len(k))
	return append(append(full, b.prefix...), k...)
}

func (b *bucket) Get(key []byte) ([]byte, error) { return b.db.Get(b.key(key)) }
func (b *bucket) Put(key, value []byte) error    { return b.db.Put(b.key(key), value) }
func (b *bucket) PutNew(key, value []byte) error { return b.db.PutNew(b.key(key), value) }
func (b *bucket) Delete(key []byte) error        { return b.db.Delete(b.key(key)) }
func (b *bucket) Has(key []byte) (bool, error)   { return b.db.Has(b.key(key)) }
func (b *bucket) Close() error                   { return nil }

func (b *bucket) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	n := len(b.prefix)
	return b.db.ForEach(b.key(prefix), func(key, value []byte) error {
		return fn(key[n:], value)
	})
}
