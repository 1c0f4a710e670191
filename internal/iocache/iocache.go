// Package iocache persists loaded ensembles and analysis run history across
// invocations, backed by SQLite, MySQL or PostgreSQL.
package iocache

import (
	"sync"

	"github.com/tephralab/plume/internal/contract"
)

// CacheStoreManager holds the process-wide ensemble cache and run store.
type CacheStoreManager struct {
	sync.RWMutex // InitCaching swaps the stores while commands may read them
	ensemble     contract.CacheStore
	runs         contract.RunStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetEnsembleStore returns the ensemble CacheStore.
func (mgr *CacheStoreManager) GetEnsembleStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.ensemble
}

// GetRunStore returns the run RunStore.
func (mgr *CacheStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
