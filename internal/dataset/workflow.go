package dataset

import (
	"sort"
)

// TaskStatus is the board column a task sits in.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusResolved   TaskStatus = "resolved"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

var priorityRank = map[string]int{
	"high":   0,
	"medium": 1,
	"low":    2,
}

// Task is a case-management item for a patient whose follow-up is at risk.
type Task struct {
	ID       string     `yaml:"id" json:"id"`
	Name     string     `yaml:"name" json:"name"`
	Issue    string     `yaml:"issue" json:"issue"`
	Priority string     `yaml:"priority" json:"priority"`
	DaysLeft int        `yaml:"daysLeft" json:"daysLeft"`
	Status   TaskStatus `yaml:"status" json:"status"`
}

// Board is the task list split into columns.
type Board struct {
	Todo       []Task `json:"todo"`
	InProgress []Task `json:"inProgress"`
	Resolved   []Task `json:"resolved"`
}

// Board groups tasks by status. Within a column, higher priority comes first,
// then fewer days left.
func (d *Dataset) Board() Board {
	tasks := make([]Task, len(d.Tasks))
	copy(tasks, d.Tasks)
	sort.SliceStable(tasks, func(i, j int) bool {
		pi, pj := rank(tasks[i].Priority), rank(tasks[j].Priority)
		if pi != pj {
			return pi < pj
		}
		return tasks[i].DaysLeft < tasks[j].DaysLeft
	})

	board := Board{Todo: []Task{}, InProgress: []Task{}, Resolved: []Task{}}
	for _, t := range tasks {
		switch t.Status {
		case StatusTodo:
			board.Todo = append(board.Todo, t)
		case StatusInProgress:
			board.InProgress = append(board.InProgress, t)
		case StatusResolved:
			board.Resolved = append(board.Resolved, t)
		}
	}
	return board
}

func rank(priority string) int {
	if r, ok := priorityRank[priority]; ok {
		return r
	}
	return len(priorityRank)
}
