package domain

import "fmt"

// Task represents one to-do item.
// ID is assigned once at creation; the text fields are opaque.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// String returns the task title for display purposes.
func (t Task) String() string {
	if t.Title == "" {
		return fmt.Sprintf("#%d", t.ID)
	}
	return t.Title
}

// NewTask holds the fields a client supplies when creating a task.
// Fields the client leaves out stay empty.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// WithID builds the Task stored for this input.
func (n NewTask) WithID(id int64) Task {
	return Task{
		ID:          id,
		Title:       n.Title,
		Description: n.Description,
		Status:      n.Status,
	}
}

// TaskCollection is the ordered set of all tasks, the unit of persistence.
type TaskCollection []Task

// MaxID returns the largest id in the collection, or 0 when it is empty.
func (c TaskCollection) MaxID() int64 {
	var max int64
	for _, t := range c {
		if t.ID > max {
			max = t.ID
		}
	}
	return max
}

// Find returns the first task with the given id.
func (c TaskCollection) Find(id int64) (Task, bool) {
	for _, t := range c {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Without returns a copy of the collection minus every task with the given id,
// and whether anything was removed. Order is preserved.
func (c TaskCollection) Without(id int64) (TaskCollection, bool) {
	out := make(TaskCollection, 0, len(c))
	for _, t := range c {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out, len(out) != len(c)
}

// DuplicateID reports the first id shared by two tasks, if any.
func (c TaskCollection) DuplicateID() (int64, bool) {
	seen := make(map[int64]struct{}, len(c))
	for _, t := range c {
		if _, ok := seen[t.ID]; ok {
			return t.ID, true
		}
		seen[t.ID] = struct{}{}
	}
	return 0, false
}
