package core

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tephralab/plume/grid"
	"github.com/tephralab/plume/internal/contract"
)

// currentCacheVersion invalidates old entries when the encoded layout changes
const currentCacheVersion = 1

// maxCacheAge bounds how long a cached ensemble stays usable
const maxCacheAge = 7 * 24 * time.Hour

// cachedLoadEnsemble loads a scenario ensemble through the cache store.
// Reading ten NetCDF members takes far longer than decoding one blob, so
// repeat analyses of the same ensemble skip the disk walk.
func cachedLoadEnsemble(ctx context.Context, cfg *contract.Config, loader contract.EnsembleLoader, mgr contract.CacheManager, scenario string) (*grid.Field, error) {
	store := mgr.GetEnsembleStore()
	if store == nil {
		// Fallback to direct loading
		return loader.LoadEnsemble(ctx, scenario, cfg.Members, cfg.Variable)
	}

	key := generateCacheKey(cfg, loader, scenario)

	if field := checkCacheHit(store, key); field != nil {
		return field, nil
	}

	return loadAndStore(ctx, cfg, loader, store, key, scenario)
}

// checkCacheHit attempts to retrieve and decode a cached ensemble
func checkCacheHit(store contract.CacheStore, key string) *grid.Field {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Stale or foreign-version entries count as misses
	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= maxCacheAge {
			var field grid.Field
			if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&field); err == nil {
				return &field // Cache hit
			}
		}
	}

	return nil
}

// loadAndStore loads the ensemble from disk and stores it in cache
func loadAndStore(ctx context.Context, cfg *contract.Config, loader contract.EnsembleLoader, store contract.CacheStore, key, scenario string) (*grid.Field, error) {
	field, err := loader.LoadEnsemble(ctx, scenario, cfg.Members, cfg.Variable)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(field); err == nil {
		_ = store.Set(key, buf.Bytes(), currentCacheVersion, time.Now().Unix())
	}

	return field, nil
}

// generateCacheKey creates a unique key based on load parameters
func generateCacheKey(cfg *contract.Config, loader contract.EnsembleLoader, scenario string) string {
	members := make([]string, len(cfg.Members))
	for i, m := range cfg.Members {
		members[i] = strconv.Itoa(m)
	}

	// Include file stamps to invalidate cache when model output changes
	stamp := loader.EnsembleStamp(scenario, cfg.Members, cfg.Variable)

	key := fmt.Sprintf("%s:%s:%s:%s:%s",
		cfg.BasePath,
		scenario,
		cfg.Variable,
		strings.Join(members, ","),
		stamp,
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
