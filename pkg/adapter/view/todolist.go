// Package view renders the todo list page fragments.
package view

import (
	"context"
	"html/template"
	"io"
	"sync"

	"todo-web/pkg/adapter/controller"
	"todo-web/pkg/entity/model"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// State of one fetch attempt.
type State int

const (
	StateUninitiated State = iota
	StatePending
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "uninitiated"
	}
}

const todoListTemplate = `
{{- define "pending"}}<div>Loading...</div>{{end -}}
{{- define "failed"}}<p>Error :(</p>{{end -}}
{{- define "succeeded"}}<div>
	<table>
		<thead>
			<tr>
				<th>id</th>
				<th>title</th>
				<th>completed</th>
			</tr>
		</thead>
		<tbody>
			{{- range .}}
			<tr>
				<td>{{.ID}}</td>
				<td>{{.Title}}</td>
				<td>{{if .Completed}}true{{else}}false{{end}}</td>
			</tr>
			{{- end}}
		</tbody>
	</table>
</div>{{end -}}
`

var templates = template.Must(template.New("todolist").Parse(todoListTemplate))

// ErrNotMounted is returned by Wait before Mount.
var ErrNotMounted = errors.New("view is not mounted")

// TodoListView fetches the todo list once per mount and renders it.
//
// Uninitiated -> Pending on Mount, then Succeeded or Failed once the fetch
// settles. Both final states are terminal until Unmount.
type TodoListView struct {
	todos  controller.Todo
	logger *zap.Logger

	mu    sync.Mutex
	state State
	items []model.Todo
	err   error
	gen   uint64
	done  chan struct{}
}

// NewTodoListView creates an unmounted view reading from todos.
func NewTodoListView(todos controller.Todo, logger *zap.Logger) *TodoListView {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoListView{todos: todos, logger: logger}
}

// Mount starts the fetch. ctx bounds the request; it is not cancelled on
// Unmount. Mounting a mounted view does nothing.
func (v *TodoListView) Mount(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state != StateUninitiated {
		return
	}
	v.state = StatePending
	v.gen++
	v.done = make(chan struct{})

	go v.fetch(ctx, v.gen, v.done)
}

// Unmount discards the fetched data. The result of a fetch still in flight is
// dropped when it arrives, and Wait reports ErrNotMounted until the next Mount.
func (v *TodoListView) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.state = StateUninitiated
	v.items = nil
	v.err = nil
	v.gen++
	v.done = nil
}

func (v *TodoListView) fetch(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	todos, err := v.todos.List(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if gen != v.gen {
		return
	}
	v.state, v.items, v.err = Settle(v.logger, todos, err)
}

// Done is closed when the fetch started by the current mount settles. It is
// nil while the view is not mounted.
func (v *TodoListView) Done() <-chan struct{} {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.done
}

// Wait blocks until the current fetch settles or ctx is done. It returns
// ErrNotMounted when no fetch was started since the last Unmount.
func (v *TodoListView) Wait(ctx context.Context) error {
	done := v.Done()
	if done == nil {
		return ErrNotMounted
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current state.
func (v *TodoListView) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Err returns the failure of the last fetch, if any. It is never rendered.
func (v *TodoListView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Todos returns a copy of the fetched todos.
func (v *TodoListView) Todos() []model.Todo {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := []model.Todo{}
	if len(v.items) == 0 {
		return out
	}
	if err := copier.CopyWithOption(&out, &v.items, copier.Option{DeepCopy: true}); err != nil {
		return nil
	}
	return out
}

// Render writes the fragment for the current state. An unmounted view renders
// nothing.
func (v *TodoListView) Render(w io.Writer) error {
	v.mu.Lock()
	state := v.state
	items := v.items
	v.mu.Unlock()

	if state == StateUninitiated {
		return nil
	}
	return templates.ExecuteTemplate(w, state.String(), items)
}
