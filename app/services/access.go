package services

import "newsboard/app/models"

// Access is the outcome of checking whether a user may change a comment.
type Access int

const (
	// AccessGranted: the user wrote the comment.
	AccessGranted Access = iota
	// AccessLoginRequired: nobody is signed in.
	AccessLoginRequired
	// AccessNotFound: the comment does not exist.
	AccessNotFound
	// AccessNotOwner: the comment belongs to someone else. Callers answer
	// it exactly like AccessNotFound.
	AccessNotOwner
)

func (a Access) String() string {
	switch a {
	case AccessGranted:
		return "granted"
	case AccessLoginRequired:
		return "login required"
	case AccessNotFound:
		return "not found"
	case AccessNotOwner:
		return "not owner"
	default:
		return "unknown"
	}
}

// Authorize decides whether user may edit or delete comment.
// A nil comment means it was not found.
func Authorize(user *models.User, comment *models.Comment) Access {
	switch {
	case user == nil:
		return AccessLoginRequired
	case comment == nil:
		return AccessNotFound
	case !comment.IsAuthoredBy(user):
		return AccessNotOwner
	default:
		return AccessGranted
	}
}
