package graphql_test

import (
	"encoding/json"
	"testing"

	"todo-web/pkg/infrastructure/graphql"

	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestInMemoryCache_Normalizes(t *testing.T) {
	cache := graphql.NewInMemoryCache()
	doc := graphql.MustParseDocument(todosQuery)

	cache.Write(doc, decode(t, `{"getTodos":[
		{"__typename":"Todo","id":"1","title":"Buy milk","completed":false},
		{"__typename":"Todo","id":"2","title":"Walk dog","completed":true}
	]}`))

	require.Equal(t, []string{"ROOT_QUERY", "Todo:1", "Todo:2"}, cache.Keys())

	root, ok := cache.Entity("ROOT_QUERY")
	require.True(t, ok)
	require.Equal(t, []any{"Todo:1", "Todo:2"}, root["getTodos"])

	todo, ok := cache.Entity("Todo:2")
	require.True(t, ok)
	require.Equal(t, "Walk dog", todo["title"])
	require.Equal(t, true, todo["completed"])
}

func TestInMemoryCache_Read(t *testing.T) {
	cache := graphql.NewInMemoryCache()
	doc := graphql.MustParseDocument(todosQuery)

	_, ok := cache.Read(doc)
	require.False(t, ok, "empty cache")

	cache.Write(doc, decode(t, `{"getTodos":[{"__typename":"Todo","id":"1","title":"Buy milk","completed":false}]}`))

	data, ok := cache.Read(doc)
	require.True(t, ok)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.JSONEq(t, `{"getTodos":[{"__typename":"Todo","id":"1","title":"Buy milk","completed":false}]}`, string(b))
}

func TestInMemoryCache_SharesEntitiesAcrossQueries(t *testing.T) {
	cache := graphql.NewInMemoryCache()
	full := graphql.MustParseDocument(todosQuery)
	titles := graphql.MustParseDocument(`query Titles { list: getTodos { id name: title } }`)

	cache.Write(full, decode(t, `{"getTodos":[{"__typename":"Todo","id":"1","title":"Buy milk","completed":false}]}`))

	data, ok := cache.Read(titles)
	require.True(t, ok, "aliases resolve to the stored field")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.JSONEq(t, `{"list":[{"__typename":"Todo","id":"1","name":"Buy milk"}]}`, string(b))

	cache.Write(titles, decode(t, `{"list":[{"__typename":"Todo","id":"1","name":"Buy oat milk"}]}`))

	data, ok = cache.Read(full)
	require.True(t, ok)
	b, err = json.Marshal(data)
	require.NoError(t, err)
	require.JSONEq(t, `{"getTodos":[{"__typename":"Todo","id":"1","title":"Buy oat milk","completed":false}]}`, string(b))
}

func TestInMemoryCache_MissingField(t *testing.T) {
	cache := graphql.NewInMemoryCache()
	titles := graphql.MustParseDocument(`query Titles { getTodos { id title } }`)

	cache.Write(titles, decode(t, `{"getTodos":[{"__typename":"Todo","id":"1","title":"Buy milk"}]}`))

	_, ok := cache.Read(graphql.MustParseDocument(todosQuery))
	require.False(t, ok, "completed was never fetched")
}

func TestInMemoryCache_EmptyList(t *testing.T) {
	cache := graphql.NewInMemoryCache()
	doc := graphql.MustParseDocument(todosQuery)

	cache.Write(doc, decode(t, `{"getTodos":[]}`))

	data, ok := cache.Read(doc)
	require.True(t, ok)
	require.Equal(t, []any{}, data["getTodos"])
}
