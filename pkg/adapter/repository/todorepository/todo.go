package todorepository

import (
	"sync"

	"todo-web/pkg/infrastructure/graphql"
	ur "todo-web/pkg/usecase/repository"
)

type todoRepository struct {
	client *graphql.Client

	once   sync.Once
	doc    *graphql.Document
	docErr error
}

func NewTodoRepository(client *graphql.Client) ur.Todo {
	return &todoRepository{client: client}
}

func (r *todoRepository) document() (*graphql.Document, error) {
	r.once.Do(func() {
		r.doc, r.docErr = r.client.Parse(getTodosQuery)
	})
	return r.doc, r.docErr
}
