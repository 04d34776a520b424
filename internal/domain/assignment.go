package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority is the urgency of an assignment. Lower values are more urgent,
// so HIGH sorts before MEDIUM before LOW.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "HIGH"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityLow:
		return "LOW"
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// ParsePriority maps a priority name to its value. Matching is
// case-insensitive and "med" is accepted as shorthand for MEDIUM.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH":
		return PriorityHigh, nil
	case "MEDIUM", "MED":
		return PriorityMedium, nil
	case "LOW":
		return PriorityLow, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

// Assignment is the unit of work exchanged between producer and consumer.
// Fields are unexported so a constructed value cannot change after it has
// been placed on the queue.
type Assignment struct {
	id          uuid.UUID
	description string
	dueDate     time.Time
	priority    Priority
}

// NewAssignment validates its inputs and returns an immutable assignment.
// An invalid item is rejected here and never reaches the queue.
func NewAssignment(description string, dueDate time.Time, priority Priority) (Assignment, error) {
	if strings.TrimSpace(description) == "" {
		return Assignment{}, ErrEmptyDescription
	}
	if dueDate.IsZero() {
		return Assignment{}, ErrMissingDueDate
	}
	if !priority.IsValid() {
		return Assignment{}, ErrInvalidPriority
	}
	return Assignment{
		id:          uuid.New(),
		description: description,
		dueDate:     dueDate,
		priority:    priority,
	}, nil
}

// MustAssignment is NewAssignment for fixed batches known to be valid.
// It panics on invalid input.
func MustAssignment(description string, dueDate time.Time, priority Priority) Assignment {
	a, err := NewAssignment(description, dueDate, priority)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Assignment) ID() uuid.UUID       { return a.id }
func (a Assignment) Description() string { return a.description }
func (a Assignment) DueDate() time.Time  { return a.dueDate }
func (a Assignment) Priority() Priority  { return a.priority }
func (a Assignment) IsZero() bool        { return a.id == uuid.Nil }

// Compare orders assignments by due date, then by priority.
// It returns a negative number when a sorts before b, zero when the two
// are order-equivalent, and a positive number otherwise.
func Compare(a, b Assignment) int {
	if c := a.dueDate.Compare(b.dueDate); c != 0 {
		return c
	}
	switch {
	case a.priority < b.priority:
		return -1
	case a.priority > b.priority:
		return 1
	}
	return 0
}

// Less reports whether a must be served before b.
func (a Assignment) Less(b Assignment) bool {
	return Compare(a, b) < 0
}

// Equal reports whether two assignments carry the same description,
// due date and priority. The ID is not part of equality.
func (a Assignment) Equal(b Assignment) bool {
	return a.description == b.description &&
		a.dueDate.Equal(b.dueDate) &&
		a.priority == b.priority
}

func (a Assignment) String() string {
	return fmt.Sprintf("Assignment{description=%q, dueDate=%s, priority=%s}",
		a.description, a.dueDate.Format(time.RFC3339), a.priority)
}
