package auth

// LoginData is the View Model (DTO) for the web login form.
type LoginData struct {
	// Action is the path the form posts to.
	Action string
	// Token is the session token taken from the page path, possibly empty.
	Token string
}

// ResultData is the View Model for the page shown after a submission.
type ResultData struct {
	// OK is false when the link did not match a pending login.
	OK bool
}
