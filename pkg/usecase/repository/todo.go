//go:generate mockgen -source=todo.go -destination=./mocks/todo_repository_mock.go -package=mocks
package repository

import (
	"context"

	"todo-web/pkg/entity/model"
)

// Todo is an interface of repository

type Todo interface {
	List(ctx context.Context) ([]*model.Todo, error)
}
