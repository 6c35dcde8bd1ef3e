package domain

import (
	"strings"
	"time"
)

// Comment is one entry of a ticket's thread.
type Comment struct {
	ID         int64
	TicketID   int64
	Author     string
	Content    string
	Timestamp  time.Time
	IsInternal bool
}

// Initials derives the avatar fallback for an author name.
func (c Comment) Initials() string {
	var out []rune
	inWord := false
	for _, r := range c.Author {
		if r == ' ' {
			inWord = false
			continue
		}
		if !inWord {
			out = append(out, r)
			inWord = true
		}
	}
	return strings.ToUpper(string(out))
}
