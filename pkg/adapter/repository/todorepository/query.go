package todorepository

import (
	"context"
	"encoding/json"

	"todo-web/pkg/entity/model"
	"todo-web/pkg/infrastructure/graphql"

	"github.com/pkg/errors"
)

const getTodosQuery = `
	query GetTodosWithUser {
		getTodos {
			id
			title
			completed
		}
	}
`

// List always goes to the network so that every caller gets exactly one
// request. Only a list that passes decodeTodoList lands in the client's cache.
func (r *todoRepository) List(ctx context.Context) ([]*model.Todo, error) {
	doc, err := r.document()
	if err != nil {
		return nil, errors.Wrap(err, "prepare getTodos query")
	}

	var todos []*model.Todo
	decode := func(data json.RawMessage) (err error) {
		todos, err = decodeTodoList(data)
		return err
	}

	if _, err := r.client.Query(ctx, doc,
		graphql.WithFetchPolicy(graphql.NetworkOnly),
		graphql.WithValidator(decode),
	); err != nil {
		return nil, err
	}

	return todos, nil
}
