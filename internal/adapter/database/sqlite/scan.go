package sqlite

import (
	"database/sql"

	"todolist/internal/core/domain"
)

// TodoColumns is the column list every todo query selects, in scan order.
var TodoColumns = []string{"id", "value", "sort_order", "done_at"}

type rowScanner interface {
	Scan(dest ...any) error
}

type Scanner struct{}

func NewScanner() *Scanner {
	return &Scanner{}
}

func (s *Scanner) ScanTodo(row rowScanner) (domain.Todo, error) {
	var (
		todo   domain.Todo
		doneAt sql.NullTime
	)

	if err := row.Scan(&todo.ID, &todo.Value, &todo.Order, &doneAt); err != nil {
		return domain.Todo{}, err
	}

	if doneAt.Valid {
		t := doneAt.Time
		todo.DoneAt = &t
	}

	return todo, nil
}

func (s *Scanner) ScanTodos(rows *sql.Rows) ([]domain.Todo, error) {
	todos := make([]domain.Todo, 0)

	for rows.Next() {
		todo, err := s.ScanTodo(rows)
		if err != nil {
			return nil, err
		}

		todos = append(todos, todo)
	}

	return todos, rows.Err()
}
