package index

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"

	asterrors "github.com/Thaylo/astograph/internal/errors"
	"github.com/Thaylo/astograph/internal/types"
)

// Persisted state layout (spec.md §6): a badger key/value store
// rather than the "recommended" single serialized document, since
// badger is the teacher's own embedded-store dependency; the layout
// still round-trips exactly the CodeUnit fields spec.md §3 names.
// Each indexed unit is one key "unit:<wl_hash>:<ordinal>" holding its
// JSON-encoded CodeUnit; each suppressed hash is one key
// "suppressed:<wl_hash>" with an empty value. Derived data (graph,
// fingerprint, node count) is recomputed from Code on load rather
// than stored, so a persisted index is portable across WL iteration
// counts change by simply reconstructing with the new count.
const (
	unitKeyPrefix       = "unit:"
	suppressedKeyPrefix = "suppressed:"
)

// Save writes idx's units and suppressions's hashes to the badger
// database at dir, creating it if absent and replacing every key it
// held before.
func Save(dir string, idx *Index, suppressions *SuppressionSet) error {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return asterrors.Persistence("index.save", dir, err)
	}
	defer db.Close()

	idx.mu.RLock()
	buckets := make(map[string][]IndexEntry, len(idx.buckets))
	for h, entries := range idx.buckets {
		buckets[h] = entries
	}
	idx.mu.RUnlock()

	err = db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{})
		var stale [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		it.Close()
		for _, k := range stale {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		for h, entries := range buckets {
			for i, e := range entries {
				body, err := json.Marshal(e.Unit)
				if err != nil {
					return err
				}
				if err := txn.Set([]byte(unitKeyFor(h, i)), body); err != nil {
					return err
				}
			}
		}
		for _, h := range suppressions.List() {
			if err := txn.Set([]byte(suppressedKeyPrefix+h), nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return asterrors.Persistence("index.save", dir, err)
	}
	return nil
}

// Load rebuilds an Index and SuppressionSet from the badger database
// at dir. A nonexistent directory yields an empty Index/SuppressionSet
// pair, not an error, matching the core's general policy of treating
// absent external state as a cold start rather than a failure.
func Load(dir string, wlIterations int) (*Index, *SuppressionSet, error) {
	idx := New(wlIterations)
	suppressions := NewSuppressionSet()

	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return idx, suppressions, asterrors.Persistence("index.load", dir, err)
	}
	defer db.Close()

	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())
			switch {
			case strings.HasPrefix(key, unitKeyPrefix):
				var unit types.CodeUnit
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &unit)
				}); err != nil {
					return err
				}
				idx.AddCodeUnit(unit)
			case strings.HasPrefix(key, suppressedKeyPrefix):
				suppressions.Add(strings.TrimPrefix(key, suppressedKeyPrefix))
			}
		}
		return nil
	})
	if err != nil {
		return idx, suppressions, asterrors.Persistence("index.load", dir, err)
	}
	return idx, suppressions, nil
}

func unitKeyFor(hash string, ordinal int) string {
	return unitKeyPrefix + hash + ":" + strconv.Itoa(ordinal)
}
