package graphql

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vektah/gqlparser/v2/ast"
)

const rootQueryKey = "ROOT_QUERY"

// reference points at a normalized entity stored in the cache.
type reference string

// InMemoryCache stores normalized query results for the lifetime of the
// process. Objects carrying both __typename and id are stored once under
// "Typename:id" and referenced from wherever they appear. Nothing is ever
// evicted or persisted.
type InMemoryCache struct {
	mu       sync.RWMutex
	entities map[string]map[string]any
}

// NewInMemoryCache creates an empty cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{entities: map[string]map[string]any{}}
}

// Write normalizes data, the result of doc, into the cache.
func (c *InMemoryCache) Write(doc *Document, data map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writeSelection(c.entity(rootQueryKey), data, doc.op.SelectionSet, doc)
}

// Read denormalizes the result of doc from the cache. ok is false when any
// selected field is missing.
func (c *InMemoryCache) Read(doc *Document) (data map[string]any, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	root, ok := c.entities[rootQueryKey]
	if !ok {
		return nil, false
	}
	return c.readSelection(root, doc.op.SelectionSet, doc)
}

// Keys returns the sorted keys of every stored entity, ROOT_QUERY included.
func (c *InMemoryCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entities))
	for k := range c.entities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entity returns a copy of the fields stored for key. References to other
// entities are returned as their key.
func (c *InMemoryCache) Entity(key string) (map[string]any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entities[key]
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(e))
	for k, v := range e {
		out[k] = exportValue(v)
	}
	return out, true
}

func (c *InMemoryCache) entity(key string) map[string]any {
	e, ok := c.entities[key]
	if !ok {
		e = map[string]any{}
		c.entities[key] = e
	}
	return e
}

func (c *InMemoryCache) writeSelection(target, data map[string]any, set ast.SelectionSet, doc *Document) {
	typename, _ := data[typenameField].(string)
	for _, f := range collectFields(set, doc.doc.Fragments, typename) {
		v, ok := data[f.Alias]
		if !ok {
			continue
		}
		target[storeKey(f)] = c.normalize(v, f.SelectionSet, doc)
	}
}

func (c *InMemoryCache) normalize(v any, set ast.SelectionSet, doc *Document) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = c.normalize(item, set, doc)
		}
		return out
	case map[string]any:
		if len(set) == 0 {
			return x
		}
		if key, ok := entityKey(x); ok {
			c.writeSelection(c.entity(key), x, set, doc)
			return reference(key)
		}
		nested := map[string]any{}
		c.writeSelection(nested, x, set, doc)
		return nested
	default:
		return x
	}
}

func (c *InMemoryCache) readSelection(obj map[string]any, set ast.SelectionSet, doc *Document) (map[string]any, bool) {
	typename, _ := obj[typenameField].(string)
	out := map[string]any{}
	for _, f := range collectFields(set, doc.doc.Fragments, typename) {
		v, ok := obj[storeKey(f)]
		if !ok {
			return nil, false
		}
		rv, ok := c.readValue(v, f.SelectionSet, doc)
		if !ok {
			return nil, false
		}
		out[f.Alias] = rv
	}
	return out, true
}

func (c *InMemoryCache) readValue(v any, set ast.SelectionSet, doc *Document) (any, bool) {
	switch x := v.(type) {
	case reference:
		e, ok := c.entities[string(x)]
		if !ok {
			return nil, false
		}
		return c.readSelection(e, set, doc)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			rv, ok := c.readValue(item, set, doc)
			if !ok {
				return nil, false
			}
			out[i] = rv
		}
		return out, true
	case map[string]any:
		if len(set) == 0 {
			return x, true
		}
		return c.readSelection(x, set, doc)
	default:
		return x, true
	}
}

func entityKey(obj map[string]any) (string, bool) {
	typename, ok := obj[typenameField].(string)
	if !ok || typename == "" {
		return "", false
	}
	switch id := obj["id"].(type) {
	case string:
		return typename + ":" + id, true
	case json.Number:
		return typename + ":" + id.String(), true
	default:
		return "", false
	}
}

// storeKey identifies a field inside its parent regardless of the alias it
// was requested under.
func storeKey(f *ast.Field) string {
	if len(f.Arguments) == 0 {
		return f.Name
	}
	args := make([]string, 0, len(f.Arguments))
	for _, a := range f.Arguments {
		v, err := a.Value.Value(nil)
		if err != nil {
			args = append(args, fmt.Sprintf("%q:%s", a.Name, a.Value.String()))
			continue
		}
		b, _ := json.Marshal(v)
		args = append(args, fmt.Sprintf("%q:%s", a.Name, b))
	}
	sort.Strings(args)
	return f.Name + "({" + strings.Join(args, ",") + "})"
}

func exportValue(v any) any {
	switch x := v.(type) {
	case reference:
		return string(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = exportValue(item)
		}
		return out
	default:
		return x
	}
}
