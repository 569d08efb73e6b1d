package usecase

import (
	"context"

	"todo-web/pkg/entity/model"
	"todo-web/pkg/usecase/repository"
)

type todoUseCase struct {
	todoRepository repository.Todo
}

type Todo interface {
	List(ctx context.Context) ([]*model.Todo, error)
}

// This function creates new todo use case
func NewTodoUseCase(r repository.Todo) Todo {
	return &todoUseCase{todoRepository: r}
}

func (t *todoUseCase) List(ctx context.Context) ([]*model.Todo, error) {
	return t.todoRepository.List(ctx)
}
