package web

import "io"

type PageView struct {
	Title    string
	TaskList TaskListView
}

func (p *Presentation) RenderIndex(w io.Writer, list TaskListView) error {
	return p.tmpl.ExecuteTemplate(w, "layout.html", PageView{
		Title:    "Todo",
		TaskList: list,
	})
}
