package view

import (
	"todo-web/pkg/entity/model"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Settle is the Pending -> Succeeded | Failed transition shared by every
// renderer of the todo list. A nil entry fails the fetch with a
// RESPONSE_SHAPE_ERROR so the list never shows fewer rows than were sent.
// Failures are logged with their code.
func Settle(logger *zap.Logger, todos []*model.Todo, err error) (State, []model.Todo, error) {
	if err == nil {
		for i, t := range todos {
			if t == nil {
				err = model.NewResponseShapeError(errors.Errorf("todo at index %d is null", i))
				break
			}
		}
	}
	if err != nil {
		logger.Warn("fetch todos failed",
			zap.String("code", model.ErrorCode(err)),
			zap.Error(err),
		)
		return StateFailed, nil, err
	}

	items := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		items = append(items, *t)
	}
	return StateSucceeded, items, nil
}
