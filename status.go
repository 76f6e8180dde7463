package contentkit

import (
	"strings"
	"time"

	"github.com/lumenworks/contentkit/pkg/models"
)

// Level is the severity of a Status.
type Level int

const (
	LevelNone Level = iota
	LevelInfo
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "none"
	}
}

// Status is the outcome of the last editor operation, as shown to the author.
type Status struct {
	Level   Level
	Message string
	Err     error
	At      time.Time
}

func label(k models.Kind) string {
	switch k {
	case models.KindBlog:
		return "blog post"
	default:
		return k.String()
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
