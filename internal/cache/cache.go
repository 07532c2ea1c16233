// Package cache implements the filesystem-backed content-addressable
// store shared by the download and API caches: SHA-1 keyed, two-level
// directory layout, optional deflate compression, and lock-file-guarded
// writes.
package cache

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zlib"
)

// Store is one cache instance rooted at a directory. The same type backs
// both the no-TTL, no-size-limit download cache and the one-hour-TTL,
// one-megabyte-per-entry API cache — callers choose the limits via New's
// options.
type Store struct {
	root                 string
	ttl                  time.Duration // zero means "never expires"
	maxFileSize          int64         // zero means "no limit"
	compressionThreshold int64
	staleLockAge         time.Duration
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithTTL sets the entry time-to-live; zero (the default) means entries
// never expire on age alone.
func WithTTL(d time.Duration) Option { return func(s *Store) { s.ttl = d } }

// WithMaxFileSize caps the (possibly compressed) size Store accepts;
// zero (the default) means unlimited.
func WithMaxFileSize(n int64) Option { return func(s *Store) { s.maxFileSize = n } }

// WithCompressionThreshold sets the uncompressed size at or above which
// Store deflates an entry before writing it; zero (the default) disables
// compression.
func WithCompressionThreshold(n int64) Option {
	return func(s *Store) { s.compressionThreshold = n }
}

// New builds a Store rooted at root, creating the directory if absent.
func New(root string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	s := &Store{root: root, staleLockAge: time.Hour}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// KeyFor derives the storage key for a logical key: the SHA-1 hex digest
// of its UTF-8 bytes.
func KeyFor(logicalKey string) string {
	sum := sha1.Sum([]byte(logicalKey))
	return hex.EncodeToString(sum[:])
}

func (s *Store) entryPath(key string) string {
	if len(key) < 2 {
		return filepath.Join(s.root, key)
	}
	return filepath.Join(s.root, key[:2], key[2:])
}

func (s *Store) metadataPath(key string) string { return s.entryPath(key) + ".metadata" }
func (s *Store) lockPath(key string) string     { return s.entryPath(key) + ".lock" }

type metadata struct {
	LogicalKey string `json:"logical_key"`
}

// Store reads the file at path and, if it fits within size limits,
// atomically places it (optionally deflated) at this entry's location
// along with a metadata sidecar. It reports false without storing when
// the size exceeds MaxFileSize.
func (s *Store) Store(key, path, logicalKey string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	payload := data
	if s.compressionThreshold > 0 && int64(len(data)) >= s.compressionThreshold {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return false, err
		}
		if err := zw.Close(); err != nil {
			return false, err
		}
		payload = buf.Bytes()
	}

	if s.maxFileSize > 0 && int64(len(payload)) > s.maxFileSize {
		return false, nil
	}

	entryPath := s.entryPath(key)
	if err := os.MkdirAll(filepath.Dir(entryPath), 0o755); err != nil {
		return false, err
	}

	tmp := entryPath + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return false, err
	}
	if err := os.Rename(tmp, entryPath); err != nil {
		os.Remove(tmp)
		return false, err
	}

	meta, err := json.Marshal(metadata{LogicalKey: logicalKey})
	if err != nil {
		return true, err
	}
	_ = os.WriteFile(s.metadataPath(key), meta, 0o644)
	return true, nil
}

// Exist reports whether key is present and, if a TTL is configured, not
// expired.
func (s *Store) Exist(key string) bool {
	info, err := os.Stat(s.entryPath(key))
	if err != nil {
		return false
	}
	return !s.isExpiredInfo(info)
}

// Expired reports whether key is present but past its TTL.
func (s *Store) Expired(key string) bool {
	info, err := os.Stat(s.entryPath(key))
	if err != nil {
		return false
	}
	return s.isExpiredInfo(info)
}

func (s *Store) isExpiredInfo(info os.FileInfo) bool {
	if s.ttl <= 0 {
		return false
	}
	return time.Since(info.ModTime()) > s.ttl
}

// Read returns the decoded contents of key, or ok=false if missing or
// expired. A zlib-headers payload (byte 0 = 0x78 with a valid FCHECK) is
// transparently inflated.
func (s *Store) Read(key string) (data []byte, ok bool, err error) {
	if !s.Exist(key) {
		return nil, false, nil
	}
	raw, err := os.ReadFile(s.entryPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	out, err := maybeInflate(raw)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// WriteTo decodes key's contents to outPath, returning ok=false if
// missing or expired.
func (s *Store) WriteTo(key, outPath string) (bool, error) {
	data, ok, err := s.Read(key)
	if err != nil || !ok {
		return ok, err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return false, err
	}
	return true, os.WriteFile(outPath, data, 0o644)
}

func isZlibHeader(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	return b[0] == 0x78 && (int(b[0])*256+int(b[1]))%31 == 0
}

func maybeInflate(raw []byte) ([]byte, error) {
	if !isZlibHeader(raw) {
		return raw, nil
	}
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return raw, nil
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// Delete removes key's entry and metadata sidecar, if present.
func (s *Store) Delete(key string) error {
	_ = os.Remove(s.metadataPath(key))
	err := os.Remove(s.entryPath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes every entry under the store's root.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(s.root, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Age reports how long ago key was last written.
func (s *Store) Age(key string) (time.Duration, bool, error) {
	info, err := os.Stat(s.entryPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return time.Since(info.ModTime()), true, nil
}

// Size reports the stored (possibly compressed) size of key.
func (s *Store) Size(key string) (int64, bool, error) {
	info, err := os.Stat(s.entryPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return info.Size(), true, nil
}

// Entry is one record yielded by Each.
type Entry struct {
	Key        string
	LogicalKey string
	ModTime    time.Time
	Size       int64
}

// Each walks every entry under the store's root, invoking fn for each.
func (s *Store) Each(fn func(Entry)) error {
	return filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) == ".metadata" || filepath.Ext(path) == ".lock" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.Dir(rel) + filepath.Base(rel)
		if filepath.Dir(rel) == "." {
			key = filepath.Base(rel)
		}
		var m metadata
		if raw, err := os.ReadFile(path + ".metadata"); err == nil {
			_ = json.Unmarshal(raw, &m)
		}
		fn(Entry{Key: key, LogicalKey: m.LogicalKey, ModTime: info.ModTime(), Size: info.Size()})
		return nil
	})
}

// LockTimeoutError reports that WithLock could not acquire key's lock
// within its retry budget.
type LockTimeoutError struct {
	Key string
}

func (e *LockTimeoutError) Error() string {
	return fmt.Sprintf("cache: timed out acquiring lock for key %q", e.Key)
}

// WithLock acquires an exclusive lock on key (sweeping any stale lock
// file older than one hour first), runs fn, and releases the lock on
// every exit path.
func (s *Store) WithLock(key string, fn func() error) error {
	lockPath := s.lockPath(key)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return err
	}
	s.sweepStaleLock(lockPath)

	const maxAttempts = 50
	const retryDelay = 100 * time.Millisecond

	var f *os.File
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		f, err = os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return err
		}
		time.Sleep(retryDelay)
	}
	if err != nil {
		return &LockTimeoutError{Key: key}
	}
	defer func() {
		f.Close()
		os.Remove(lockPath)
	}()

	return fn()
}

func (s *Store) sweepStaleLock(lockPath string) {
	info, err := os.Stat(lockPath)
	if err != nil {
		return
	}
	if time.Since(info.ModTime()) > s.staleLockAge {
		os.Remove(lockPath)
	}
}
