package database

import "time"

// Task represents one user-submitted to-do item. Rows are immutable once
// created; there is no update or delete path.
type Task struct {
	ID        uint      `db:"id"`
	UserID    int64     `db:"user_id"`
	Text      string    `db:"task"`
	CreatedAt time.Time `db:"created_at"`
}
