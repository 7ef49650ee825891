package httpcache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const cacheFileSuffix = ".txt"

// FileSystemCache is a Middleware that caches response bodies as flat files
// under dir, keyed by an md5 of the request URL. A file younger than ttl
// short-circuits the chain; anything else (missing, stale, unreadable) is a
// miss and the fetched body is written through. Write failures are logged
// and swallowed so the fetched value still reaches the caller.
func FileSystemCache(dir string, ttl time.Duration) Middleware {
	return func(ctx context.Context, req Request, next Next) (string, error) {
		path := filepath.Join(dir, cacheKey(req.URL)+cacheFileSuffix)

		if info, err := os.Stat(path); err == nil && time.Since(info.ModTime()) < ttl {
			if data, err := os.ReadFile(path); err == nil {
				return string(data), nil
			}
			// Unreadable cache files fall through to a fresh fetch.
		}

		body, err := next(ctx, req)
		if err != nil {
			return "", err
		}

		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Printf("cache: creating %s: %v", dir, err)
			return body, nil
		}

		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			log.Printf("cache: writing %s: %v", path, err)
		}

		return body, nil
	}
}

// Purge removes every cache file under dir, returning how many were
// deleted. A missing directory counts as zero, not an error.
func Purge(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), cacheFileSuffix) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return removed, err
		}
		removed++
	}

	return removed, nil
}

func cacheKey(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}
