package journal

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/pstruct/pkg/bptree"
	"github.com/ssargent/pstruct/pkg/query"
)

// Store is the pebble-backed append log of journal entries, indexed in
// memory by generation counter via a bptree.BPlusTree for point lookups.
//
// Grounded on the teacher's pkg/storage/storage.go (pebble + ksuid
// create/read pattern), generalized from a single blob store to an
// attempt-history log, and pkg/bptree.BPlusTree reused as-is for the
// counter index.
type Store struct {
	db         *pebble.DB
	counterIdx *bptree.BPlusTree[uint32, ksuid.KSUID]
	extractor  query.JSONFieldExtractor
}

// Open opens (creating if necessary) a journal store backed by a pebble
// database at dataDir.
func Open(dataDir string) (*Store, error) {
	db, err := pebble.Open(dataDir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pstruct: open journal store: %w", err)
	}

	return &Store{
		db:         db,
		counterIdx: bptree.NewBPlusTree[uint32, ksuid.KSUID](bptree.DefaultOrder),
	}, nil
}

// Append journals e, indexing it by its generation counter.
func (s *Store) Append(e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("pstruct: marshal journal entry: %w", err)
	}

	if err := s.db.Set(e.ID.Bytes(), data, pebble.Sync); err != nil {
		return fmt.Errorf("pstruct: append journal entry: %w", err)
	}

	s.counterIdx.Insert(e.Counter, e.ID)
	return nil
}

// Get looks up a single entry by its journal ID.
func (s *Store) Get(id ksuid.KSUID) (Entry, error) {
	data, closer, err := s.db.Get(id.Bytes())
	if err != nil {
		return Entry{}, fmt.Errorf("pstruct: get journal entry %s: %w", id, err)
	}
	defer closer.Close()

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, fmt.Errorf("pstruct: decode journal entry %s: %w", id, err)
	}
	return e, nil
}

// ByCounter looks up the entry journaled for generation counter, via the
// in-memory counter index rather than scanning the whole log.
func (s *Store) ByCounter(counter uint32) (Entry, bool) {
	id, ok := s.counterIdx.Search(counter)
	if !ok {
		return Entry{}, false
	}
	e, err := s.Get(id)
	if err != nil {
		return Entry{}, false
	}
	return e, true
}

// All returns every journaled entry in key (creation) order.
func (s *Store) All() ([]Entry, error) {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("pstruct: iterate journal: %w", err)
	}
	defer iter.Close()

	var entries []Entry
	for iter.First(); iter.Valid(); iter.Next() {
		var e Entry
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			return nil, fmt.Errorf("pstruct: decode journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, iter.Error()
}

// Query filters journal entries by a single field/operator/value
// condition over their JSON encoding, mirroring the teacher's
// pkg/query.FieldQuery contract but executing directly against the
// pebble iterator instead of a secondary-index manager.
func (s *Store) Query(fq query.FieldQuery) ([]Entry, error) {
	if err := fq.Validate(); err != nil {
		return nil, fmt.Errorf("pstruct: invalid journal query: %w", err)
	}

	iter, err := s.db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("pstruct: iterate journal: %w", err)
	}
	defer iter.Close()

	var matches []Entry
	for iter.First(); iter.Valid(); iter.Next() {
		raw := iter.Value()

		fieldValue, err := s.extractor.Extract(raw, fq.Field)
		if err != nil {
			continue
		}
		ok, err := matchField(fieldValue, fq.Operator, fq.Value)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		var e Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("pstruct: decode journal entry: %w", err)
		}
		matches = append(matches, e)
	}
	return matches, iter.Error()
}

// matchField compares a JSON-decoded field value against a query value
// using operator. "=" compares the fmt.Sprint forms of both values, for
// numbers, strings and booleans alike; the ordering operators convert
// both sides to float64 (JSON's native number representation) and fail
// on operands that are not numbers or booleans.
func matchField(fieldValue interface{}, operator string, want interface{}) (bool, error) {
	if operator == "=" {
		return fmt.Sprint(fieldValue) == fmt.Sprint(want), nil
	}

	fv, fvOK := toFloat64(fieldValue)
	wv, wvOK := toFloat64(want)
	if !fvOK || !wvOK {
		return false, fmt.Errorf("pstruct: operator %q requires numeric operands", operator)
	}

	switch operator {
	case ">":
		return fv > wv, nil
	case "<":
		return fv < wv, nil
	case ">=":
		return fv >= wv, nil
	case "<=":
		return fv <= wv, nil
	default:
		return false, fmt.Errorf("pstruct: unsupported operator %q", operator)
	}
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case uint32:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Close releases the underlying pebble handle.
func (s *Store) Close() error {
	return s.db.Close()
}
