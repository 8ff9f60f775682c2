package entity

import (
	"fmt"
	"strings"
	"time"
)

// Action is the disposition a user declares for one of their accounts.
type Action string

const (
	ActionDelete      Action = "delete"
	ActionMemorialize Action = "memorialize"
	ActionArchive     Action = "archive"
	ActionNone        Action = "none"
)

// Actions lists every declarable action in display order.
var Actions = []Action{ActionDelete, ActionMemorialize, ActionArchive, ActionNone}

// Status is the post-execution state of an account.
type Status string

const (
	StatusActive            Status = "active"
	StatusMarkedForDeletion Status = "marked_for_deletion"
	StatusMemorialized      Status = "memorialized"
	StatusArchived          Status = "archived"
	StatusNoChange          Status = "no_change"
)

// ParseAction validates raw input at the edge. Rows already stored with an
// unknown action are still handled by Outcome.
func ParseAction(raw string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Actions {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", raw)
}

// Outcome maps an action to the status it produces and the phrase recorded in
// the execution log. Every value maps; anything unrecognised is a no-op.
func (a Action) Outcome() (Status, string) {
	switch a {
	case ActionDelete:
		return StatusMarkedForDeletion, "Marked for deletion"
	case ActionMemorialize:
		return StatusMemorialized, "Marked for memorialization"
	case ActionArchive:
		return StatusArchived, "Marked for archiving"
	default:
		return StatusNoChange, "No action"
	}
}

// Account is an online service registered in a user's plan.
type Account struct {
	ID          int64
	UserID      int64
	ServiceName string
	Category    string
	Identifier  string
	Action      Action
	Notes       string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Execute applies the account's action and returns the log text for it.
func (a *Account) Execute() string {
	status, phrase := a.Action.Outcome()
	a.Status = status
	return a.ServiceName + ": " + phrase
}
