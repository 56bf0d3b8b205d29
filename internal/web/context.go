package web

import "net/http"

type RequestContext struct {
	IsHTMX  bool // HX-Request header present
	Boosted bool // HX-Boosted - was this a boosted link/form?
}

func parseRequestContext(r *http.Request) RequestContext {
	return RequestContext{
		IsHTMX:  r.Header.Get("HX-Request") == "true",
		Boosted: r.Header.Get("HX-Boosted") == "true",
	}
}

// wantsPartial is true when the response will be swapped into the page
// rather than loaded as a full document.
func (c RequestContext) wantsPartial() bool {
	return c.IsHTMX && !c.Boosted
}
