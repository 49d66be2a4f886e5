// Package catalog tracks ingestion runs and source files in a BoltDB ledger.
//
// Runs are keyed by a monotonic sequence so listing returns them in start
// order. File records are keyed by source path and carry the checksum of
// the file as last ingested, which is what incremental ingestion compares
// against to skip unchanged files.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrEncodeFailed = errors.New("record encoding failed")
)

var (
	// run sequence -> RunRecord
	bucketRuns = []byte("runs")
	// source path -> FileRecord
	bucketFiles = []byte("files")
)

// Catalog stores run and file records in BoltDB.
type Catalog struct {
	mu    sync.RWMutex
	cache map[string]*FileRecord

	db   *bolt.DB
	path string
	now  func() time.Time
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithClock overrides the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		if now != nil {
			c.now = now
		}
	}
}

// Open opens or creates a catalog database at path.
func Open(path string, opts ...Option) (*Catalog, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketRuns); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketFiles)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	c := &Catalog{
		cache: make(map[string]*FileRecord),
		db:    db,
		path:  path,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// RecordIngest stores one run record and the file records it produced in a
// single transaction. File records are stamped with the run ID. Returns the
// run ID, generating one when the record carries none.
func (c *Catalog) RecordIngest(run RunRecord, files []FileRecord) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt == 0 {
		run.StartedAt = c.now().UnixMicro()
	}

	err := c.db.Update(func(tx *bolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		seq, err := runs.NextSequence()
		if err != nil {
			return fmt.Errorf("run sequence: %w", err)
		}

		data := run.Encode()
		if data == nil {
			return fmt.Errorf("%w: run %s", ErrEncodeFailed, run.ID)
		}
		if err := runs.Put(EncodeUint64(seq), data); err != nil {
			return fmt.Errorf("store run: %w", err)
		}

		fb := tx.Bucket(bucketFiles)
		for i := range files {
			files[i].RunID = run.ID
			if files[i].IngestedAt == 0 {
				files[i].IngestedAt = run.StartedAt
			}
			data := files[i].Encode()
			if data == nil {
				return fmt.Errorf("%w: file %s", ErrEncodeFailed, files[i].Path)
			}
			if err := fb.Put([]byte(files[i].Path), data); err != nil {
				return fmt.Errorf("store file %s: %w", files[i].Path, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	for i := range files {
		rec := files[i]
		c.cache[rec.Path] = &rec
	}
	c.mu.Unlock()

	return run.ID, nil
}

// Runs lists all recorded runs in start order.
func (c *Catalog) Runs() ([]RunRecord, error) {
	var out []RunRecord
	err := c.db.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket(bucketRuns).Cursor()
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			rec := DecodeRunRecord(v)
			if rec == nil {
				continue
			}
			out = append(out, *rec)
		}
		return nil
	})
	return out, err
}

// File retrieves the record for a source path.
func (c *Catalog) File(path string) (*FileRecord, error) {
	c.mu.RLock()
	if rec, ok := c.cache[path]; ok {
		c.mu.RUnlock()
		return rec, nil
	}
	c.mu.RUnlock()

	// slow path
	c.mu.Lock()
	defer c.mu.Unlock()
	if rec, ok := c.cache[path]; ok {
		return rec, nil
	}

	var data []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		data = tx.Bucket(bucketFiles).Get([]byte(path))
		if data == nil {
			return ErrNotFound
		}
		data = append([]byte(nil), data...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	rec := DecodeFileRecord(data)
	if rec == nil {
		return nil, fmt.Errorf("decode file record %q", path)
	}

	c.cache[path] = rec
	return rec, nil
}

// Changed reports whether a source file differs from its last ingested
// state. Files never seen before count as changed.
func (c *Catalog) Changed(path, checksum string) (bool, error) {
	rec, err := c.File(path)
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return rec.Checksum != checksum, nil
}

// Close closes the catalog database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Checksum computes the content hash of a file as stored in file records.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}
