package model

// Todo is a single row of the todo list as returned by the GraphQL server.
// Records are owned by the server; the application only holds read-only copies.
type Todo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// TodoList is the payload of the getTodos query.
type TodoList struct {
	GetTodos []*Todo `json:"getTodos"`
}
