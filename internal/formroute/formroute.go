// Package formroute derives where the login form posts to from the page path.
//
// A chat-bot login link looks like /auth/<token>. The token scopes the login
// attempt to one pending flow, so the form must post back to the same
// /auth/<token> path. Every input yields a result; there is no error path.
package formroute

import "strings"

// Prefix is the path segment that introduces a session token.
const Prefix = "/auth/"

// Route is the result of resolving a page path once per request.
type Route struct {
	// Token is the session token, empty when the path carries none.
	Token string
	// Action is the path the credential form is submitted to.
	Action string
}

// HasToken reports whether the route is scoped to a session token.
func (r Route) HasToken() bool {
	return r.Token != ""
}

// ExtractToken returns the segment following the first "/auth/" in path,
// up to the next "/" or the end of the string.
func ExtractToken(path string) string {
	parts := strings.SplitN(path, Prefix, 2)
	if len(parts) < 2 {
		return ""
	}
	token, _, _ := strings.Cut(parts[1], "/")
	return token
}

// SubmissionTarget returns /auth/<token>, or path unchanged when token is empty.
func SubmissionTarget(token, path string) string {
	if token == "" {
		return path
	}
	return Prefix + token
}

// Resolve computes the token and the submission target for path.
func Resolve(path string) Route {
	token := ExtractToken(path)
	return Route{
		Token:  token,
		Action: SubmissionTarget(token, path),
	}
}
