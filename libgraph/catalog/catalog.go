package catalog

import (
	"bytes"
	"encoding/binary"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/vf2systems/graphiso/graphiso"
	"github.com/vf2systems/graphiso/libgraph"
)

// Catalog is a badger-backed store of named label graphs, keyed by the
// lossy degree-sequence signature so that lookups only ever decode and
// match a small candidate slice of the store.
//
// Key layout:
//
//	gStateKey                          => uvarint(vers) uvarint(nextSeq)
//	<signature><0,0><seq uint32 BE>    => uvarint(len) name <graph encoding>
type Catalog struct {
	mu       sync.Mutex
	db       *badger.DB
	readOnly bool
	nextSeq  uint64
	dirty    bool

	// in-memory signature → entry count, rebuilt on open
	sigIndex *redblacktree.Tree
}

// Opts configures Open. An empty Path opens an in-memory catalog.
type Opts struct {
	Path     string
	ReadOnly bool
}

var gStateKey = []byte{0x00, 0x00, 0x01}

const stateVers = 1

// Entry is one stored graph.
type Entry struct {
	Name  string
	Graph *libgraph.Graph
}

// Open opens or creates a catalog.
func Open(opts Opts) (*Catalog, error) {
	dbOpts := badger.DefaultOptions(opts.Path)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	if opts.Path == "" {
		if opts.ReadOnly {
			return nil, errors.Wrap(graphiso.ErrBadCatalogParam, "read-only catalog requires a path")
		}
		dbOpts.InMemory = true
	}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	cat := &Catalog{
		db:       db,
		readOnly: opts.ReadOnly,
		sigIndex: redblacktree.NewWithStringComparator(),
	}

	if err := cat.loadState(); err != nil {
		db.Close()
		return nil, err
	}
	if err := cat.buildIndex(); err != nil {
		db.Close()
		return nil, err
	}
	klog.V(1).Infof("catalog open: %d entries across %d signatures", cat.Len(), cat.sigIndex.Size())
	return cat, nil
}

// Close flushes state and releases the store.
func (cat *Catalog) Close() error {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	if cat.db == nil {
		return nil
	}
	if err := cat.flushState(); err != nil {
		return err
	}
	err := cat.db.Close()
	cat.db = nil
	return err
}

func (cat *Catalog) loadState() error {
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gStateKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			r := byteReader{buf: val}
			vers, err := r.uvarint()
			if err != nil {
				return err
			}
			if vers != stateVers {
				return errors.Wrapf(graphiso.ErrBadCatalogParam, "catalog version %d", vers)
			}
			cat.nextSeq, err = r.uvarint()
			return err
		})
	})
	if err == badger.ErrKeyNotFound {
		cat.nextSeq = 1
		cat.dirty = true
		return nil
	}
	return err
}

func (cat *Catalog) flushState() error {
	if !cat.dirty || cat.readOnly {
		return nil
	}
	err := cat.db.Update(func(txn *badger.Txn) error {
		var buf []byte
		buf = appendUvarint(buf, stateVers)
		buf = appendUvarint(buf, cat.nextSeq)
		return txn.Set(gStateKey, buf)
	})
	if err == nil {
		cat.dirty = false
	}
	return err
}

// buildIndex scans every key once to rebuild the in-memory signature
// counts.
func (cat *Catalog) buildIndex() error {
	return cat.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: false})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			if bytes.Equal(key, gStateKey) {
				continue
			}
			sig := sigOfKey(key)
			if sig == nil {
				klog.Warningf("catalog: skipping malformed key %x", key)
				continue
			}
			cat.bumpIndex(string(sig), 1)
		}
		return nil
	})
}

// sigOfKey strips the trailing sequence number, returning the signature
// including its double-NUL terminator, or nil if the key is malformed.
func sigOfKey(key []byte) []byte {
	if len(key) < 4+2 {
		return nil
	}
	end := len(key) - 4 // 4-byte big-endian seq suffix
	if key[end-2] != 0 || key[end-1] != 0 {
		return nil
	}
	return key[:end]
}

func (cat *Catalog) bumpIndex(sig string, delta int) {
	n := 0
	if cur, ok := cat.sigIndex.Get(sig); ok {
		n = cur.(int)
	}
	cat.sigIndex.Put(sig, n+delta)
}

// Len returns the number of stored graphs.
func (cat *Catalog) Len() int {
	total := 0
	it := cat.sigIndex.Iterator()
	for it.Next() {
		total += it.Value().(int)
	}
	return total
}

// TryAdd stores g under name unless an exactly-isomorphic graph is already
// present. Returns true when g was added. Only signature-mates are decoded
// and matched; dedup runs through the exact matcher, never through any
// canonical form.
func (cat *Catalog) TryAdd(name string, g *libgraph.Graph) (bool, error) {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	if cat.readOnly {
		return false, graphiso.ErrCatalogReadOnly
	}

	var keyBuf [128]byte
	sig := signatureKey(keyBuf[:0], g)

	enc, err := encodeGraph(nil, g)
	if err != nil {
		return false, err
	}

	dup := false
	err = cat.db.View(func(txn *badger.Txn) error {
		return cat.scanSig(txn, sig, func(e Entry) (bool, error) {
			iso, err := libgraph.IsIsomorphic(e.Graph, g, nil)
			if err != nil {
				return false, err
			}
			if iso {
				dup = true
				return false, nil
			}
			return true, nil
		})
	})
	if err != nil || dup {
		return false, err
	}

	key := append([]byte(nil), sig...)
	key = binary.BigEndian.AppendUint32(key, uint32(cat.nextSeq))
	val := appendString(nil, name)
	val = append(val, enc...)

	err = cat.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
	if err != nil {
		return false, err
	}
	cat.nextSeq++
	cat.dirty = true
	cat.bumpIndex(string(sig), 1)
	return true, nil
}

// scanSig visits each entry sharing the signature prefix until onHit
// returns false.
func (cat *Catalog) scanSig(txn *badger.Txn, sig []byte, onHit func(Entry) (bool, error)) error {
	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   64,
		Prefix:         sig,
	})
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		var e Entry
		err := it.Item().Value(func(val []byte) error {
			var err error
			e, err = decodeEntry(val)
			return err
		})
		if err != nil {
			return err
		}
		more, err := onHit(e)
		if err != nil || !more {
			return err
		}
	}
	return nil
}

func decodeEntry(val []byte) (Entry, error) {
	r := byteReader{buf: val}
	name, err := r.str()
	if err != nil {
		return Entry{}, err
	}
	g, err := decodeGraph(val[r.pos:])
	if err != nil {
		return Entry{}, err
	}
	return Entry{Name: name, Graph: g}, nil
}

// Selector narrows a Select scan. Zero values leave a bound open.
type Selector struct {
	MinVerts int
	MaxVerts int
}

func (sel Selector) allow(n int) bool {
	if n < sel.MinVerts {
		return false
	}
	return sel.MaxVerts == 0 || n <= sel.MaxVerts
}

// Select sends every entry passing sel into onHit, closing it when done.
// The caller must drain onHit: entries are sent from inside a read
// transaction, so abandoning the channel early pins the transaction and
// strands the sending goroutine.
func (cat *Catalog) Select(sel Selector, onHit chan<- Entry) error {
	defer close(onHit)
	return cat.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			PrefetchValues: true,
			PrefetchSize:   64,
		})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			if bytes.Equal(item.Key(), gStateKey) {
				continue
			}
			nv, n := binary.Uvarint(item.Key())
			if n <= 0 || !sel.allow(int(nv)) {
				continue
			}
			var e Entry
			err := item.Value(func(val []byte) error {
				var err error
				e, err = decodeEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			onHit <- e
		}
		return nil
	})
}

// FindContaining returns the entries whose graphs pattern embeds into,
// prefiltering by vertex count before running the subgraph matcher.
func (cat *Catalog) FindContaining(pattern *libgraph.Graph) ([]Entry, error) {
	minVerts := pattern.VertexCount()

	var hits []Entry
	onHit := make(chan Entry, 4)
	errc := make(chan error, 1)
	go func() {
		errc <- cat.Select(Selector{MinVerts: minVerts}, onHit)
	}()

	var matchErr error
	for e := range onHit {
		ok, err := libgraph.IsSubgraphIsomorphic(e.Graph, pattern, nil)
		if err != nil {
			matchErr = err
			continue
		}
		if ok {
			hits = append(hits, e)
		}
	}
	if err := <-errc; err != nil {
		return nil, err
	}
	if matchErr != nil {
		return nil, matchErr
	}
	return hits, nil
}
