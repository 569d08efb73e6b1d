package e2e

import (
	"net/http/httptest"
	"testing"

	"todo-web/config"
	"todo-web/graph"
	"todo-web/pkg/entity/model"
	"todo-web/pkg/infrastructure/graphql"
	"todo-web/pkg/infrastructure/router"
	"todo-web/pkg/registry"
	"todo-web/testutil"

	"github.com/gavv/httpexpect/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// SetupOption is an option of Setup
type SetupOption struct {
	// Todos served by the stub GraphQL server.
	Todos []*model.Todo
	// Endpoint overrides the stub GraphQL server.
	Endpoint string
	// ServerOptions configure the stub GraphQL server.
	ServerOptions []testutil.GraphQLServerOption
}

// Setup starts the application against a GraphQL server and returns an
// httpexpect client for it. The returned GraphQLServer is nil when
// option.Endpoint is set.
func Setup(t *testing.T, option SetupOption) (*httpexpect.Expect, *testutil.GraphQLServer, func()) {
	t.Helper()
	testutil.ReadConfigE2E()

	var gqlServer *testutil.GraphQLServer
	endpoint := option.Endpoint
	if endpoint == "" {
		gqlServer = testutil.NewGraphQLServer(t, option.Todos, option.ServerOptions...)
		endpoint = gqlServer.URL
	}

	logger := zaptest.NewLogger(t)
	client, err := graphql.NewClient(graphql.Options{
		Endpoint: endpoint,
		Schema:   graph.Schema,
		Logger:   logger,
	})
	require.NoError(t, err)

	ctrl := registry.New(client).NewController()
	e := router.New(ctrl, router.Options{Logger: logger, Title: config.C.AppName})
	srv := httptest.NewServer(e)

	expect := httpexpect.WithConfig(httpexpect.Config{
		BaseURL:  srv.URL,
		Reporter: httpexpect.NewAssertReporter(t),
		Printers: []httpexpect.Printer{
			httpexpect.NewDebugPrinter(t, true),
		},
	})

	return expect, gqlServer, srv.Close
}
