package service

import (
	"errors"
	"strings"
)

// Kind classifies a service failure. The API layer maps each kind to one
// HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindUnauthorized
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	}
	return "internal"
}

// Error is a classified failure with a message that is safe to show clients.
type Error struct {
	Kind    Kind
	Message string
	// Details lists individual problems, such as one entry per invalid field.
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = newError(KindConflict, "User with email or username already exists")
	ErrEmailTaken           = newError(KindConflict, "Email is already in use")
	ErrInvalidCredentials   = newError(KindUnauthorized, "Invalid user credentials")
	ErrUserNotFound         = newError(KindNotFound, "User does not exist")
	ErrChannelNotFound      = newError(KindNotFound, "Channel does not exist")
	ErrInvalidOldPassword   = newError(KindValidation, "Invalid old password")
	ErrUnauthorized         = newError(KindUnauthorized, "Unauthorized request")
	ErrTokenExpired         = newError(KindUnauthorized, "Token has expired")
	ErrInvalidToken         = newError(KindUnauthorized, "Invalid access token")
	ErrInvalidRefreshToken  = newError(KindUnauthorized, "Invalid refresh token")
	ErrRefreshTokenMismatch = newError(KindUnauthorized, "Refresh token is expired or used")
	ErrAvatarRequired       = newError(KindValidation, "Avatar file is required")
	ErrAvatarUpload         = newError(KindValidation, "Error while uploading avatar")
	ErrCoverImageRequired   = newError(KindValidation, "Cover image file is missing")
	ErrCoverImageUpload     = newError(KindValidation, "Error while uploading cover image")
	ErrVideoFileRequired    = newError(KindValidation, "Video file is required")
	ErrThumbnailRequired    = newError(KindValidation, "Thumbnail is required")
	ErrVideoUpload          = newError(KindValidation, "Error while uploading video")
	ErrThumbnailUpload      = newError(KindValidation, "Error while uploading thumbnail")
	ErrVideoNotFound        = newError(KindNotFound, "Video not found")
	ErrCommentNotFound      = newError(KindNotFound, "Comment not found")
	ErrTweetNotFound        = newError(KindNotFound, "Tweet not found")
	ErrPlaylistNotFound     = newError(KindNotFound, "Playlist not found")
	ErrNotOwner             = newError(KindForbidden, "You are not the owner of this resource")
	ErrSelfSubscription     = newError(KindValidation, "You cannot subscribe to your own channel")
	ErrCascadeIncomplete    = newError(KindInternal, "Delete did not complete, please retry")
	ErrMutationFailed       = newError(KindInternal, "Storage reported no change")
)

// invalid reports blank or malformed input.
func invalid(message string, details ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// requireFields fails with a validation error naming every blank field.
// Pairs are name, value.
func requireFields(pairs ...string) error {
	var blank []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			blank = append(blank, pairs[i]+" is required")
		}
	}
	if len(blank) == 0 {
		return nil
	}
	if len(blank) == 1 {
		return invalid(blank[0], blank...)
	}
	return invalid("All fields are required", blank...)
}

// notOwner builds the forbidden error for a specific action.
func notOwner(action string) error {
	return &Error{Kind: KindForbidden, Message: "Only the owner can " + action, Err: ErrNotOwner}
}

// unexpected wraps an unclassified failure.
func unexpected(err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}
