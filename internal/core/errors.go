package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeEmptyName    = "empty_name"
	ErrCodeNameTaken    = "name_taken"
	ErrCodeRoomNotFound = "room_not_found"
	ErrCodeRoomExists   = "room_exists"
	ErrCodeUserNotFound = "user_not_found"
	ErrCodeNotInRoom    = "not_in_room"
)

var (
	ErrEmptyName    = errors.New("name is empty")
	ErrNameTaken    = errors.New("name is taken")
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomExists   = errors.New("room exists")
	ErrUserNotFound = errors.New("user not found")
	ErrNotInRoom    = errors.New("not in room")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

// ErrorCode extracts the domain code from err, or "" if it carries none.
func ErrorCode(err error) string {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
