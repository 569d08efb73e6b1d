package view_test

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"todo-web/pkg/adapter/controller"
	"todo-web/pkg/adapter/view"
	"todo-web/pkg/entity/model"
	"todo-web/pkg/usecase/repository/mocks"
	usecase "todo-web/pkg/usecase/usecase/todo"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	rowPattern  = regexp.MustCompile(`(?s)<tr>(.*?)</tr>`)
	cellPattern = regexp.MustCompile(`(?s)<t[dh]>(.*?)</t[dh]>`)
)

// parseTable returns the cell texts of every table row, header included.
func parseTable(html string) [][]string {
	var rows [][]string
	for _, row := range rowPattern.FindAllStringSubmatch(html, -1) {
		var cells []string
		for _, cell := range cellPattern.FindAllStringSubmatch(row[1], -1) {
			cells = append(cells, cell[1])
		}
		rows = append(rows, cells)
	}
	return rows
}

func setup(t *testing.T) (*mocks.MockTodo, *view.TodoListView) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockTodo(ctrl)
	todos := controller.NewTodoController(usecase.NewTodoUseCase(repo))
	return repo, view.NewTodoListView(todos, nil)
}

func render(t *testing.T, v *view.TodoListView) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, v.Render(&buf))
	return buf.String()
}

func mountAndWait(t *testing.T, v *view.TodoListView) string {
	t.Helper()
	v.Mount(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, v.Wait(ctx))
	return render(t, v)
}

func TestTodoListView_Succeeded(t *testing.T) {
	header := []string{"id", "title", "completed"}

	tests := []struct {
		name  string
		todos []*model.Todo
		want  [][]string
	}{
		{
			name:  "single todo",
			todos: []*model.Todo{{ID: "1", Title: "Buy milk", Completed: false}},
			want:  [][]string{header, {"1", "Buy milk", "false"}},
		},
		{
			name:  "empty list renders the header only",
			todos: []*model.Todo{},
			want:  [][]string{header},
		},
		{
			name: "rows keep server order",
			todos: []*model.Todo{
				{ID: "3", Title: "Water plants", Completed: true},
				{ID: "1", Title: "Buy milk", Completed: false},
				{ID: "2", Title: "Walk dog", Completed: true},
			},
			want: [][]string{
				header,
				{"3", "Water plants", "true"},
				{"1", "Buy milk", "false"},
				{"2", "Walk dog", "true"},
			},
		},
		{
			name:  "titles are escaped",
			todos: []*model.Todo{{ID: "1", Title: "<b>bold</b>", Completed: true}},
			want:  [][]string{header, {"1", "&lt;b&gt;bold&lt;/b&gt;", "true"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, v := setup(t)
			repo.EXPECT().List(gomock.Any()).Return(tt.todos, nil).Times(1)

			html := mountAndWait(t, v)

			require.Equal(t, view.StateSucceeded, v.State())
			require.Equal(t, tt.want, parseTable(html))
			require.NotContains(t, html, "Loading...")
			require.NotContains(t, html, "Error :(")
		})
	}
}

func TestTodoListView_CompletedLiterals(t *testing.T) {
	for _, completed := range []bool{true, false} {
		repo, v := setup(t)
		repo.EXPECT().List(gomock.Any()).Return([]*model.Todo{{ID: "1", Title: "x", Completed: completed}}, nil)

		rows := parseTable(mountAndWait(t, v))

		require.Len(t, rows, 2)
		if completed {
			require.Equal(t, "true", rows[1][2])
		} else {
			require.Equal(t, "false", rows[1][2])
		}
	}
}

func TestTodoListView_Failed(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "network error", err: model.NewTransportError(errors.New("dial tcp: connection refused"))},
		{name: "malformed payload", err: model.NewResponseShapeError(errors.New("missing properties: 'title'"))},
		{name: "unclassified error", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, v := setup(t)
			repo.EXPECT().List(gomock.Any()).Return(nil, tt.err)

			html := mountAndWait(t, v)

			require.Equal(t, view.StateFailed, v.State())
			require.Equal(t, "<p>Error :(</p>", html)
			require.ErrorIs(t, v.Err(), tt.err)
		})
	}
}

func TestTodoListView_NullEntryFails(t *testing.T) {
	repo, v := setup(t)
	repo.EXPECT().List(gomock.Any()).Return([]*model.Todo{{ID: "1", Title: "Buy milk"}, nil}, nil)

	html := mountAndWait(t, v)

	require.Equal(t, view.StateFailed, v.State())
	require.Equal(t, "<p>Error :(</p>", html)
	require.True(t, model.IsResponseShapeError(v.Err()))
	require.Empty(t, v.Todos())
}

func TestTodoListView_PendingUntilResolved(t *testing.T) {
	repo, v := setup(t)
	release := make(chan struct{})
	called := make(chan struct{})
	repo.EXPECT().List(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]*model.Todo, error) {
		close(called)
		<-release
		return []*model.Todo{{ID: "1", Title: "Buy milk"}}, nil
	})

	require.Equal(t, view.StateUninitiated, v.State())
	require.Empty(t, render(t, v), "nothing is rendered before mount")

	v.Mount(context.Background())
	<-called

	for i := 0; i < 3; i++ {
		require.Equal(t, view.StatePending, v.State())
		require.Equal(t, "<div>Loading...</div>", render(t, v))
		time.Sleep(10 * time.Millisecond)
	}

	close(release)
	require.NoError(t, v.Wait(context.Background()))
	require.Equal(t, view.StateSucceeded, v.State())
	require.Len(t, parseTable(render(t, v)), 2)
}

func TestTodoListView_OneRequestPerMount(t *testing.T) {
	repo, v := setup(t)
	repo.EXPECT().List(gomock.Any()).Return([]*model.Todo{}, nil).Times(2)

	v.Mount(context.Background())
	v.Mount(context.Background())
	require.NoError(t, v.Wait(context.Background()))
	v.Mount(context.Background())

	v.Unmount()
	require.Equal(t, view.StateUninitiated, v.State())
	require.Empty(t, render(t, v))

	mountAndWait(t, v)
	require.Equal(t, view.StateSucceeded, v.State())
}

func TestTodoListView_UnmountDropsInFlightResult(t *testing.T) {
	repo, v := setup(t)
	release := make(chan struct{})
	repo.EXPECT().List(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]*model.Todo, error) {
		<-release
		return []*model.Todo{{ID: "1", Title: "Buy milk"}}, nil
	})

	v.Mount(context.Background())
	done := v.Done()
	v.Unmount()
	close(release)
	<-done

	require.Equal(t, view.StateUninitiated, v.State())
	require.Empty(t, v.Todos())
	require.Empty(t, render(t, v))
	require.Nil(t, v.Done())
	require.ErrorIs(t, v.Wait(context.Background()), view.ErrNotMounted)
}

func TestTodoListView_WaitBeforeMount(t *testing.T) {
	_, v := setup(t)
	require.ErrorIs(t, v.Wait(context.Background()), view.ErrNotMounted)
}

func TestTodoListView_TodosIsACopy(t *testing.T) {
	repo, v := setup(t)
	repo.EXPECT().List(gomock.Any()).Return([]*model.Todo{{ID: "1", Title: "Buy milk"}}, nil)
	mountAndWait(t, v)

	got := v.Todos()
	require.Equal(t, []model.Todo{{ID: "1", Title: "Buy milk"}}, got)
	got[0].Title = "changed"

	require.Equal(t, "Buy milk", v.Todos()[0].Title)
	require.False(t, strings.Contains(render(t, v), "changed"))
}
