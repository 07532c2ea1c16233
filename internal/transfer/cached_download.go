package transfer

import (
	"context"
	"os"
	"path/filepath"

	"factorix/internal/cache"
	"factorix/internal/eventbus"
)

const (
	TopicCacheHit  = "cache.hit"
	TopicCacheMiss = "cache.miss"
)

type CacheHit struct {
	URL       string
	Output    string
	TotalSize int64
}

type CacheMiss struct{ URL string }

// CachedDownload implements the cache-fronted downloader orchestration:
// a cache hit (with a matching digest, if one was requested) serves the
// output directly; otherwise the lock-guarded miss path downloads to a
// temp file, verifies the digest, stores it, and serves the output from
// the freshly populated cache entry. A download the store declines to
// keep (over its size limit) is moved to the output path directly.
func (c *Client) CachedDownload(ctx context.Context, store *cache.Store, rawURL, outPath, expectedSHA1 string) error {
	key := cache.KeyFor(canonicalKey(rawURL))

	if store.Exist(key) {
		if expectedSHA1 == "" || c.cachedDigestMatches(store, key, expectedSHA1) {
			if ok, err := store.WriteTo(key, outPath); err != nil {
				return err
			} else if ok {
				if info, err := os.Stat(outPath); err == nil {
					c.bus.Publish(eventbus.Event{Topic: TopicCacheHit, Payload: CacheHit{URL: rawURL, Output: outPath, TotalSize: info.Size()}})
				}
				return nil
			}
		}
	}

	var downloadErr error
	servedDirect := false
	err := store.WithLock(key, func() error {
		if store.Exist(key) && (expectedSHA1 == "" || c.cachedDigestMatches(store, key, expectedSHA1)) {
			return nil
		}

		c.bus.Publish(eventbus.Event{Topic: TopicCacheMiss, Payload: CacheMiss{URL: rawURL}})
		tmp := outPath + ".cache-fetch"
		if err := c.Download(ctx, rawURL, tmp, expectedSHA1); err != nil {
			downloadErr = err
			os.Remove(tmp)
			return nil
		}
		defer os.Remove(tmp)

		stored, storeErr := store.Store(key, tmp, canonicalKey(rawURL))
		if storeErr == nil && !stored {
			servedDirect = true
			return os.Rename(tmp, outPath)
		}
		return storeErr
	})
	if err != nil {
		return err
	}
	if downloadErr != nil {
		return downloadErr
	}
	if servedDirect {
		return nil
	}

	ok, err := store.WriteTo(key, outPath)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if info, err := os.Stat(outPath); err == nil {
		c.bus.Publish(eventbus.Event{Topic: TopicCacheHit, Payload: CacheHit{URL: rawURL, Output: outPath, TotalSize: info.Size()}})
	}
	return nil
}

func (c *Client) cachedDigestMatches(store *cache.Store, key, expectedSHA1 string) bool {
	tmp := filepath.Join(os.TempDir(), "factorix-digest-"+key)
	ok, err := store.WriteTo(key, tmp)
	if err != nil || !ok {
		return false
	}
	defer os.Remove(tmp)
	got, err := sha1File(tmp)
	if err != nil {
		return false
	}
	return got == expectedSHA1
}
