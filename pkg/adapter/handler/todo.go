package handler

import (
	"bytes"
	"html/template"
	"net/http"

	"todo-web/pkg/adapter/controller"
	"todo-web/pkg/adapter/view"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`

var page = template.Must(template.New("page").Parse(pageTemplate))

// TodoPage renders a full HTML document holding the todo list.
func TodoPage(todos controller.Todo, logger *zap.Logger, title string) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := renderTodoList(c, todos, logger)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := page.Execute(&buf, struct {
			Title string
			Body  template.HTML
		}{Title: title, Body: template.HTML(body)}); err != nil {
			return err
		}
		return c.HTML(http.StatusOK, buf.String())
	}
}

// TodoFragment renders the todo list fragment only.
func TodoFragment(todos controller.Todo, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := renderTodoList(c, todos, logger)
		if err != nil {
			return err
		}
		return c.HTML(http.StatusOK, body)
	}
}

// renderTodoList mounts a fresh view for the request and renders it once the
// fetch has settled. If the request ends first the pending state is rendered.
func renderTodoList(c echo.Context, todos controller.Todo, logger *zap.Logger) (string, error) {
	ctx := c.Request().Context()

	v := view.NewTodoListView(todos, logger.With(
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
	))
	v.Mount(ctx)
	defer v.Unmount()

	if err := v.Wait(ctx); err != nil {
		logger.Debug("request ended before todos settled", zap.Error(err))
	}

	var buf bytes.Buffer
	if err := v.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
