package main

import (
	"log"

	"todo-web/config"
	"todo-web/pkg/adapter/controller"
	"todo-web/pkg/infrastructure/graphql"
	"todo-web/pkg/infrastructure/logger"
	"todo-web/pkg/infrastructure/router"
	"todo-web/pkg/registry"

	"go.uber.org/zap"
)

func main() {
	config.ReadConfig(config.ReadConfigOption{})

	l := newLogger()
	defer func() { _ = l.Sync() }()

	client := newGraphQLClient(l)
	ctrl := newController(client)

	e := router.New(ctrl, router.Options{
		Logger: l,
		Title:  config.C.AppName,
	})

	l.Info("starting server",
		zap.String("address", config.C.Server.Address),
		zap.String("graphql_endpoint", client.Endpoint()),
	)
	e.Logger.Fatal(e.Start(":" + config.C.Server.Address))
}

func newLogger() *zap.Logger {
	l, err := logger.New()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	return l
}

func newGraphQLClient(l *zap.Logger) *graphql.Client {
	client, err := graphql.NewClientFromConfig(l)
	if err != nil {
		l.Fatal("Failed to create graphql client", zap.Error(err))
	}
	return client
}

func newController(client *graphql.Client) controller.Controller {
	r := registry.New(client)
	return r.NewController()
}
