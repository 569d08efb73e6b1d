package todorepository

import (
	"encoding/json"

	"todo-web/pkg/entity/model"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var todoListSchema = jsonschema.MustCompileString("todolist.json", `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["getTodos"],
	"properties": {
		"getTodos": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "title", "completed"],
				"properties": {
					"__typename": {"type": "string"},
					"id": {"type": "string"},
					"title": {"type": "string"},
					"completed": {"type": "boolean"}
				}
			}
		}
	}
}`)

// decodeTodoList checks data against the todo list shape and decodes it.
// Every violation is reported, not only the first one.
func decodeTodoList(data json.RawMessage) ([]*model.Todo, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, model.NewResponseShapeError(errors.Wrap(err, "decode todo list"))
	}

	if err := todoListSchema.Validate(v); err != nil {
		return nil, model.NewResponseShapeError(schemaErrors(err))
	}

	var list model.TodoList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, model.NewResponseShapeError(errors.Wrap(err, "decode todo list"))
	}

	if err := uniqueIDs(list.GetTodos); err != nil {
		return nil, model.NewResponseShapeError(err)
	}

	return list.GetTodos, nil
}

func uniqueIDs(todos []*model.Todo) error {
	var result *multierror.Error
	seen := make(map[string]int, len(todos))
	for i, t := range todos {
		if j, ok := seen[t.ID]; ok {
			result = multierror.Append(result, errors.Errorf("/getTodos/%d: duplicate id %q (first seen at /getTodos/%d)", i, t.ID, j))
			continue
		}
		seen[t.ID] = i
	}
	return result.ErrorOrNil()
}

func schemaErrors(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}

	var result *multierror.Error
	collectSchemaValidationErrors(ve, &result)
	if result == nil {
		return err
	}
	return result
}

// collectSchemaValidationErrors appends every leaf cause of err.
func collectSchemaValidationErrors(err *jsonschema.ValidationError, result **multierror.Error) {
	if len(err.Causes) == 0 {
		*result = multierror.Append(*result, errors.Errorf("%s: %s", location(err.InstanceLocation), err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaValidationErrors(cause, result)
	}
}

func location(pointer string) string {
	if pointer == "" {
		return "/"
	}
	return pointer
}
