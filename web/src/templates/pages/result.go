package pages

import (
	"github.com/nfrund/webauth/internal/view/dto/auth"
	"github.com/nfrund/webauth/web/src/templates/partials"
	g "maragu.dev/gomponents"
)

// Result is the page body rendered after a credential post.
func Result(data auth.ResultData) g.Node {
	return partials.Result(data)
}
