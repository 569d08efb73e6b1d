package controller

import (
	"context"

	"todo-web/pkg/entity/model"
	usecase "todo-web/pkg/usecase/usecase/todo"
)

type Todo interface {
	List(ctx context.Context) ([]*model.Todo, error)
}

type todoController struct {
	todoUseCase usecase.Todo
}

// Create new todo controller

func NewTodoController(tu usecase.Todo) Todo {
	return &todoController{todoUseCase: tu}
}

func (tc *todoController) List(ctx context.Context) ([]*model.Todo, error) {
	return tc.todoUseCase.List(ctx)
}
