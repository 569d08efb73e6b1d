package testutil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"todo-web/graph"
	"todo-web/pkg/entity/model"

	gqlgen "github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// GraphQLServer is a todo GraphQL server for tests. Incoming documents are
// validated against graph.Schema.
type GraphQLServer struct {
	*httptest.Server

	calls    int32
	hold     bool
	release  chan struct{}
	received chan struct{}
	once     sync.Once
}

// GraphQLServerOption configures a GraphQLServer.
type GraphQLServerOption func(*GraphQLServer)

// WithHold keeps every response back until Release is called.
func WithHold() GraphQLServerOption {
	return func(s *GraphQLServer) {
		s.hold = true
	}
}

// NewGraphQLServer starts a server answering getTodos with todos. It is closed
// when the test ends.
func NewGraphQLServer(t *testing.T, todos []*model.Todo, opts ...GraphQLServerOption) *GraphQLServer {
	t.Helper()

	s := &GraphQLServer{
		release:  make(chan struct{}),
		received: make(chan struct{}, 16),
	}
	for _, opt := range opts {
		opt(s)
	}

	schema := gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: graph.Schema})

	srv := handler.New(&gqlgen.ExecutableSchemaMock{
		SchemaFunc: func() *ast.Schema { return schema },
		ExecFunc: func(ctx context.Context) gqlgen.ResponseHandler {
			opCtx := gqlgen.GetOperationContext(ctx)
			ran := false
			return func(ctx context.Context) *gqlgen.Response {
				if ran {
					return nil
				}
				ran = true

				data, err := json.Marshal(resolveQuery(opCtx, todos))
				if err != nil {
					return gqlgen.ErrorResponse(ctx, "marshal: %s", err)
				}
				return &gqlgen.Response{Data: data}
			}
		},
	})
	srv.AddTransport(transport.POST{})

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.calls, 1)
		select {
		case s.received <- struct{}{}:
		default:
		}
		if s.hold {
			select {
			case <-s.release:
			case <-r.Context().Done():
				return
			}
		}
		srv.ServeHTTP(w, r)
	}))
	t.Cleanup(func() {
		s.Release()
		s.Close()
	})

	return s
}

// Calls returns the number of requests received so far.
func (s *GraphQLServer) Calls() int {
	return int(atomic.LoadInt32(&s.calls))
}

// Received is signalled once per incoming request.
func (s *GraphQLServer) Received() <-chan struct{} {
	return s.received
}

// Release lets held responses through.
func (s *GraphQLServer) Release() {
	s.once.Do(func() {
		close(s.release)
	})
}

func resolveQuery(opCtx *gqlgen.OperationContext, todos []*model.Todo) map[string]any {
	out := map[string]any{}
	for _, f := range gqlgen.CollectFields(opCtx, opCtx.Operation.SelectionSet, []string{"Query"}) {
		switch f.Name {
		case "__typename":
			out[f.Alias] = "Query"
		case "getTodos":
			items := make([]any, 0, len(todos))
			for _, todo := range todos {
				items = append(items, resolveTodo(opCtx, f.Selections, todo))
			}
			out[f.Alias] = items
		}
	}
	return out
}

func resolveTodo(opCtx *gqlgen.OperationContext, set ast.SelectionSet, todo *model.Todo) map[string]any {
	out := map[string]any{}
	for _, f := range gqlgen.CollectFields(opCtx, set, []string{"Todo"}) {
		switch f.Name {
		case "__typename":
			out[f.Alias] = "Todo"
		case "id":
			out[f.Alias] = todo.ID
		case "title":
			out[f.Alias] = todo.Title
		case "completed":
			out[f.Alias] = todo.Completed
		}
	}
	return out
}

// NewRawServer starts a server answering every request with status and body.
func NewRawServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// UnreachableEndpoint returns the URL of a server that is no longer listening.
func UnreachableEndpoint(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()
	return endpoint
}
