package partials

import (
	"github.com/nfrund/webauth/internal/view/dto/auth"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const (
	resultOK     = "Готово! Поверніться в бот і натисніть «Перевірити вхід»."
	resultFailed = "Невірне посилання."
)

// resultMessage returns the text shown after a submission.
func resultMessage(ok bool) string {
	if ok {
		return resultOK
	}
	return resultFailed
}

// Result renders the card shown after the credential form was posted.
func Result(data auth.ResultData) g.Node {
	tone := "dot dot-failed"
	if data.OK {
		tone = "dot dot-ok"
	}
	return h.Div(h.Class("card result"),
		h.P(
			h.Span(h.Class(tone)),
			g.Text(resultMessage(data.OK)),
		),
	)
}
