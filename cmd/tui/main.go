package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"todo-web/config"
	"todo-web/pkg/adapter/tui"
	"todo-web/pkg/infrastructure/graphql"
	"todo-web/pkg/infrastructure/logger"
	"todo-web/pkg/registry"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const logFile = "todo-tui.log"

func main() {
	config.ReadConfig(config.ReadConfigOption{})

	// The terminal belongs to the program, so logs go to a file.
	l, err := logger.NewWithOptions(config.C.Log.Level, config.C.Log.Development, logFile)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = l.Sync() }()

	client, err := graphql.NewClientFromConfig(l)
	if err != nil {
		l.Fatal("Failed to create graphql client", zap.Error(err))
	}
	ctrl := registry.New(client).NewController()

	p := tea.NewProgram(tui.New(context.Background(), ctrl.Todo, l))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
