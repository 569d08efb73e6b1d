package config_test

import (
	"testing"

	"todo-web/config"
	"todo-web/pkg/util/environment"

	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	config.ReadConfig(config.ReadConfigOption{AppEnv: environment.Test})

	require.Equal(t, environment.Test, config.C.AppEnv)
	require.Equal(t, "todo-web", config.C.AppName)
	require.Equal(t, "http://localhost:8000/graphql", config.C.GraphQL.Endpoint)
	require.NotEmpty(t, config.C.Server.Address)
}

func TestReadConfig_EnvOverride(t *testing.T) {
	t.Setenv("GRAPHQL_ENDPOINT", "https://todos.example.com/graphql")

	config.ReadConfig(config.ReadConfigOption{AppEnv: environment.Test})

	require.Equal(t, "https://todos.example.com/graphql", config.C.GraphQL.Endpoint)
}
