package web

import (
	"io"
	"strconv"

	"git.sr.ht/~jakintosh/todo/internal/domain"
)

// TaskView is the view model for Task
type TaskView struct {
	ID           int64
	Description  string
	Completed    bool
	ToggleURL    string
	DeleteButton DeleteButtonView
}

// NewTaskView creates a TaskView from a domain Task
func NewTaskView(t domain.Task) TaskView {
	return TaskView{
		ID:           t.ID,
		Description:  t.Description,
		Completed:    t.Completed,
		ToggleURL:    "/tasks/" + strconv.FormatInt(t.ID, 10) + "/toggle",
		DeleteButton: newDeleteButtonView(t.ID),
	}
}

// TaskListView is the swappable list region of the page.
type TaskListView struct {
	Tasks     []TaskView
	Remaining int
	Error     string // shown above the new-task form
	Draft     string // description to re-populate after a rejected submit
}

func NewTaskListView(tasks []domain.Task) TaskListView {
	view := TaskListView{Tasks: make([]TaskView, len(tasks))}
	for i, t := range tasks {
		view.Tasks[i] = NewTaskView(t)
		if !t.Completed {
			view.Remaining++
		}
	}
	return view
}

// RenderTaskList renders the list region for htmx swaps
func (p *Presentation) RenderTaskList(w io.Writer, view TaskListView) error {
	return p.tmpl.ExecuteTemplate(w, "task_list", view)
}
