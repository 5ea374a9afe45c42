// Package astcache caches parsed syntax trees: a size-bounded, LRU-evicted
// cache keyed by content hash, with concurrent parses for the same key
// coalesced into one via singleflight.
package astcache

import (
	"container/list"
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/sync/singleflight"

	"github.com/sevigo/codelens/internal/lang"
)

// DefaultCapacity is the capacity used when a caller passes zero.
const DefaultCapacity = 64

type entry struct {
	key  string
	tree *SyntaxTree
}

// Cache is a thread-safe, LRU-evicted cache of SyntaxTrees keyed by content
// hash. Insertions for the same key are serialised via a singleflight group
// so concurrent Parse calls for identical content coalesce into one parse.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
	group    singleflight.Group
}

// New creates a Cache with the given capacity. A capacity <= 0 is clamped to
// DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Parse returns the SyntaxTree for source, parsing and inserting into the
// cache on a miss. Concurrent calls for the same content hash share one
// underlying parse.
func (c *Cache) Parse(ctx context.Context, source *SourceFile) (*SyntaxTree, error) {
	key := cacheKey(source.ContentHash, source.Language)

	if tree, ok := c.lookup(key); ok {
		return tree, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if tree, ok := c.lookup(key); ok {
			return tree, nil
		}
		tree, perr := c.parse(ctx, source)
		if perr != nil {
			return nil, perr
		}
		c.insert(key, tree)
		return tree, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*SyntaxTree), nil
}

func (c *Cache) lookup(key string) (*SyntaxTree, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*entry).tree, true
}

func (c *Cache) insert(key string, tree *SyntaxTree) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		el.Value.(*entry).tree = tree
		return
	}

	el := c.ll.PushFront(&entry{key: key, tree: tree})
	c.items[key] = el

	for c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest == nil {
			break
		}
		c.ll.Remove(oldest)
		delete(c.items, oldest.Value.(*entry).key)
		// Weak-eviction semantics: existing holders of oldest.tree keep it
		// valid until they Close it themselves. We do not call Close here.
	}
}

// Len reports the number of trees currently resident in the cache.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *Cache) parse(ctx context.Context, source *SourceFile) (*SyntaxTree, error) {
	meta, ok := lang.Get(source.Language)
	if !ok || meta.Grammar() == nil {
		// No grammar wired for this tag (config/markup languages): return an
		// empty, partial tree. The matcher falls back to regex for these.
		return &SyntaxTree{
			hash:     source.ContentHash,
			language: source.Language,
			source:   source.Bytes,
			partial:  true,
		}, nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(meta.Grammar())

	tree, err := parser.ParseCtx(ctx, nil, source.Bytes)
	if err != nil {
		return nil, fmt.Errorf("astcache: parse %s: %w", source.Path, err)
	}

	partial := tree.RootNode() != nil && tree.RootNode().HasError()

	return &SyntaxTree{
		hash:     source.ContentHash,
		language: source.Language,
		source:   source.Bytes,
		tree:     tree,
		partial:  partial,
	}, nil
}

func cacheKey(hash string, tag lang.Tag) string {
	return fmt.Sprintf("%s:%s", tag, hash)
}
