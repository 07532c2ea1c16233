package cache

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestStoreAndReadRoundtrip(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)

	src := writeTemp(t, t.TempDir(), "payload.bin", "hello cache")
	key := KeyFor("https://example.com/mods/foo")

	ok, err := s.Store(key, src, "https://example.com/mods/foo")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, s.Exist(key))

	data, ok, err := s.Read(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hello cache", string(data))
}

func TestStoreRejectsOversizedEntry(t *testing.T) {
	root := t.TempDir()
	s, err := New(root, WithMaxFileSize(4))
	require.NoError(t, err)

	src := writeTemp(t, t.TempDir(), "big.bin", "way more than four bytes")
	ok, err := s.Store(KeyFor("k"), src, "k")
	require.NoError(t, err)
	require.False(t, ok, "expected Store to refuse an oversized entry")
}

func TestTTLExpiry(t *testing.T) {
	root := t.TempDir()
	s, err := New(root, WithTTL(time.Hour))
	require.NoError(t, err)

	src := writeTemp(t, t.TempDir(), "v.bin", "value")
	key := KeyFor("k")
	_, err = s.Store(key, src, "k")
	require.NoError(t, err)

	oldTime := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(s.entryPath(key), oldTime, oldTime))

	require.False(t, s.Exist(key), "expected expired entry to report as absent via Exist")
	require.True(t, s.Expired(key))

	_, ok, _ := s.Read(key)
	require.False(t, ok, "expected Read to report absent for an expired entry")

	ok, _ = s.WriteTo(key, filepath.Join(t.TempDir(), "out.bin"))
	require.False(t, ok, "expected WriteTo to report absent for an expired entry")
}

func TestWithLockSerializesConcurrentWriters(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)

	var storeCalls int32
	var wg sync.WaitGroup
	key := KeyFor("shared-key")

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WithLock(key, func() error {
				if s.Exist(key) {
					return nil
				}
				atomic.AddInt32(&storeCalls, 1)
				src := writeTemp(t, t.TempDir(), "v.bin", "value")
				_, err := s.Store(key, src, "shared-key")
				return err
			})
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&storeCalls), "expected exactly one store call among concurrent writers")
}

func TestDeleteAndClear(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)

	src := writeTemp(t, t.TempDir(), "v.bin", "value")
	key := KeyFor("k")
	_, err = s.Store(key, src, "k")
	require.NoError(t, err)
	require.NoError(t, s.Delete(key))
	require.False(t, s.Exist(key), "expected key removed after Delete")

	for _, k := range []string{"a", "b"} {
		src := writeTemp(t, t.TempDir(), k+".bin", "x")
		_, err := s.Store(KeyFor(k), src, k)
		require.NoError(t, err)
	}
	require.NoError(t, s.Clear())
	require.False(t, s.Exist(KeyFor("a")) || s.Exist(KeyFor("b")), "expected Clear to remove all entries")
}
