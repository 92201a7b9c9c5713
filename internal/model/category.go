package model

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Palette is the fixed set of colors a category may be assigned when
// created without an explicit color.
var Palette = []string{
	"#EF5350", "#EC407A", "#AB47BC", "#7E57C2", "#5C6BC0",
	"#42A5F5", "#29B6F6", "#26C6DA", "#26A69A", "#66BB6A",
	"#9CCC65", "#D4E157", "#FFEE58", "#FFCA28", "#FFA726",
	"#FF7043", "#8D6E63", "#BDBDBD", "#78909C",
}

// ColorAt maps an arbitrary non-negative pick onto the palette.
func ColorAt(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

var ErrInvalidColor = errors.New("model: invalid category color")

type Category struct {
	ID    string
	Name  string
	Color string
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("model: category id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("model: category name is required")
	}
	if !hexColorPattern.MatchString(c.Color) {
		return ErrInvalidColor
	}
	return nil
}

type Subtask struct {
	ID           string
	ParentID     string
	Title        string
	Completed    bool
	CreatedAt    time.Time
	LastModified time.Time
}

func (s Subtask) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("model: subtask id is required")
	}
	if strings.TrimSpace(s.ParentID) == "" {
		return errors.New("model: subtask parent id is required")
	}
	if strings.TrimSpace(s.Title) == "" {
		return errors.New("model: subtask title is required")
	}
	if s.CreatedAt.IsZero() {
		return errors.New("model: subtask created_at is required")
	}
	if s.LastModified.IsZero() {
		return errors.New("model: subtask last_modified is required")
	}
	return nil
}
