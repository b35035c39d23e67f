package editor

import (
	"errors"

	"garment-texture-studio/internal/canvas"
	"garment-texture-studio/internal/texture"
)

// Level grades a notice.
type Level int

const (
	Info Level = iota
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "info"
}

// Notice is a transient, non-blocking message for the user.
type Notice struct {
	Level   Level
	Message string
	Err     error
}

// Notifier shows notices.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// NoticeFor maps an editor error to its user-facing message.
func NoticeFor(err error) Notice {
	msg := err.Error()
	lvl := Error
	switch {
	case errors.Is(err, canvas.ErrNoSelection):
		msg = "Select an image first!"
	case errors.Is(err, canvas.ErrGuardedObject):
		msg = "Cannot delete guide elements!"
	case errors.Is(err, ErrUnavailableZone):
		msg = "That fit shortcut is only available while editing the shirt."
	case errors.Is(err, canvas.ErrUnknownZone):
		msg = "Unknown fit zone."
	case errors.Is(err, texture.ErrAssetFetch):
		lvl = Warning
		msg = "Download failed; continuing without it."
	case errors.Is(err, texture.ErrDecode):
		lvl = Warning
		msg = "Could not read that image."
	}
	return Notice{Level: lvl, Message: msg, Err: err}
}
