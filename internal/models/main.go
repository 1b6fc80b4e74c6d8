// Package models defines the core data structures for accounts, projects and tasks.
package models

import (
	"fmt"
	"time"
)

// Account represents a registered user with credentials.
type Account struct {
	// ID is the unique identifier for the account.
	ID int64
	// Username is the login name chosen by the user.
	Username string
	// PasswordHash is the bcrypt hash of the account password.
	PasswordHash []byte
}

// Project is a named container of tasks owned by exactly one account.
type Project struct {
	// ID is the unique identifier for the project.
	ID int64 `json:"id"`
	// Name is the display name of the project.
	Name string `json:"name"`
	// Description is optional; nil when the project has none.
	Description *string `json:"description"`
	// OwnerID references the owning account. Set at creation, never reassigned.
	OwnerID int64 `json:"-"`
}

// Task is a unit of work belonging to exactly one project.
type Task struct {
	// ID is the unique identifier for the task.
	ID int64 `json:"id"`
	// Title is the display title of the task.
	Title string `json:"title"`
	// Description is optional; nil when the task has none.
	Description *string `json:"description"`
	// Status is the workflow state of the task.
	Status TaskStatus `json:"status"`
	// DueDate is an optional calendar date with no time component.
	DueDate *Date `json:"dueDate"`
	// ProjectID references the parent project. Immutable after creation.
	ProjectID int64 `json:"projectId"`
}

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	// StatusTodo is the initial state of a task.
	StatusTodo TaskStatus = "TODO"
	// StatusInProgress marks a task as started.
	StatusInProgress TaskStatus = "IN_PROGRESS"
	// StatusDone marks a task as finished.
	StatusDone TaskStatus = "DONE"
)

// ParseTaskStatus validates a raw status string. The empty string parses
// to StatusTodo, the default for tasks created without an explicit status.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case "":
		return StatusTodo, nil
	case StatusTodo, StatusInProgress, StatusDone:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// Date is a calendar date without a time component.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	t, err := time.Parse(dateLayout, s[1:len(s)-1])
	if err != nil {
		return fmt.Errorf("invalid date %s: %w", s, err)
	}
	d.Time = t
	return nil
}

// String returns the date as "YYYY-MM-DD".
func (d Date) String() string {
	return d.Format(dateLayout)
}
