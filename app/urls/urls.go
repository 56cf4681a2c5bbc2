// Package urls builds the application's paths so handlers, templates and
// tests agree on them.
package urls

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	Home   = "/"
	Login  = "/auth/login/"
	Logout = "/auth/logout/"
	Signup = "/auth/signup/"

	CommentsAnchor = "comments"
)

// NewsDetail is the page of one news item.
func NewsDetail(id int) string {
	return fmt.Sprintf("/news/%d/", id)
}

// NewsComments points at the comment thread on the news page.
func NewsComments(newsID int) string {
	return NewsDetail(newsID) + "#" + CommentsAnchor
}

func CommentEdit(id int) string {
	return fmt.Sprintf("/edit_comment/%d/", id)
}

func CommentDelete(id int) string {
	return fmt.Sprintf("/delete_comment/%d/", id)
}

// LoginWithNext is the login page that returns to next afterwards.
// Slashes are left unescaped.
func LoginWithNext(next string) string {
	if next == "" {
		return Login
	}
	return Login + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// SafeNext returns next when it is a path on this site, otherwise Home.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") ||
		strings.Contains(next, `\`) {
		return Home
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return Home
	}
	return next
}
