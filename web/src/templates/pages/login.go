package pages

import (
	"github.com/nfrund/webauth/internal/view/dto/auth"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Login is the web login card: the one-time code, the optional 2FA password
// and a submit button, posted as a whole page to data.Action.
func Login(data auth.LoginData) g.Node {
	return g.Group([]g.Node{
		h.Span(h.Class("badge"), g.Text("Telegram Login")),
		h.Div(h.Class("card"),
			h.H1(g.Text("Вхід в акаунт")),
			h.P(g.Text("Введіть код, який прийшов у Telegram або SMS. Якщо увімкнено 2FA — додайте пароль.")),
			h.Form(h.Method("post"), h.Action(data.Action),
				h.Div(h.Class("row"),
					h.Label(h.For("code"), g.Text("Код з Telegram/SMS")),
					h.Input(
						h.ID("code"),
						h.Name("code"),
						h.Type("text"),
						g.Attr("inputmode", "numeric"),
						g.Attr("autocomplete", "one-time-code"),
						h.Placeholder("12345"),
					),
				),
				h.Div(h.Class("row"),
					h.Label(h.For("password"), g.Text("Пароль 2FA (якщо увімкнено)")),
					h.Input(
						h.ID("password"),
						h.Name("password"),
						h.Type("password"),
						g.Attr("autocomplete", "current-password"),
						h.Placeholder("••••••••"),
					),
				),
				h.Div(h.Class("actions"),
					h.Button(h.Type("submit"), g.Text("Підтвердити вхід")),
					h.Div(h.Class("hint"), g.Text("Після відправки поверніться в бот і натисніть «Перевірити вхід».")),
				),
			),
			h.Div(h.Class("divider")),
			h.Div(h.Class("footer"),
				h.Span(g.Text("Безпека: код діє обмежений час")),
				h.Span(g.Text("Підтримка: напишіть у бот")),
			),
		),
	})
}
