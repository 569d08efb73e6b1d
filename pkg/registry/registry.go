package registry

import (
	"todo-web/pkg/adapter/controller"
	"todo-web/pkg/infrastructure/graphql"
)

type registry struct {
	client *graphql.Client
}

// Registry is an interface of registry
type Registry interface {
	NewController() controller.Controller
}

// New registers entire controller with dependencies. client is the one
// GraphQL client shared by every controller.
func New(client *graphql.Client) Registry {
	return &registry{client: client}
}

// NewController generates controllers
func (r *registry) NewController() controller.Controller {
	return controller.Controller{
		Todo: r.NewTodoController(),
	}
}
