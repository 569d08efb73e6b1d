package registry

import (
	"todo-web/pkg/adapter/controller"
	todorepository "todo-web/pkg/adapter/repository/todorepository"
	usecase "todo-web/pkg/usecase/usecase/todo"
)

func (r *registry) NewTodoController() controller.Todo {
	repo := todorepository.NewTodoRepository(r.client)
	u := usecase.NewTodoUseCase(repo)

	return controller.NewTodoController(u)
}
