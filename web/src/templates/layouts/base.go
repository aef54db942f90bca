package layouts

import (
	"github.com/nfrund/webauth/internal/view"
	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"
)

// Base wraps page content in the HTML document shared by every web login page.
func Base(title string, flashes view.FlashData, content ...g.Node) g.Node {
	return c.HTML5(c.HTML5Props{
		Title:    CalculateTitle(title),
		Language: "uk",
		Head: []g.Node{
			h.Link(h.Rel("stylesheet"), h.Href("/assets/app.css")),
		},
		Body: []g.Node{
			h.Div(h.Class("shell"),
				Flashes(flashes),
				g.Group(content),
			),
		},
	})
}

// Flashes renders pending flash messages, or nothing.
func Flashes(flashes view.FlashData) g.Node {
	if flashes.Empty() {
		return nil
	}
	return h.Div(h.Class("flashes"),
		g.Map(flashes.Error, func(msg string) g.Node {
			return h.Div(h.Class("flash flash-error"), g.Attr("role", "alert"), g.Text(msg))
		}),
		g.Map(flashes.Success, func(msg string) g.Node {
			return h.Div(h.Class("flash flash-success"), g.Text(msg))
		}),
	)
}
