package web

import "strconv"

// DeleteButtonView holds data for the delete button template fragment
type DeleteButtonView struct {
	URL            string // e.g., "/tasks/3"
	FallbackURL    string // POST target when htmx is unavailable
	ConfirmMessage string
	ButtonText     string
}

func newDeleteButtonView(id int64) DeleteButtonView {
	url := "/tasks/" + strconv.FormatInt(id, 10)
	return DeleteButtonView{
		URL:            url,
		FallbackURL:    url + "/delete",
		ConfirmMessage: "Delete this task?",
		ButtonText:     "Delete",
	}
}
