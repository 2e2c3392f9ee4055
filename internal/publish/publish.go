// Package publish delivers a composed message to the downstream target.
//
// Publishers never signal failure by error alone: Publish returns a Result
// whose OK field is the only confirmation the announcer trusts.
package publish

import (
	"context"
	"fmt"
	"strings"
)

// APIError is one entry of the target's structured error list.
type APIError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e APIError) String() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// Result is the outcome of one publish attempt.
type Result struct {
	OK     bool
	ID     string // id of the created post, when the target returns one
	Errors []APIError
}

// Err summarizes a failed Result, or returns nil when OK.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	if len(r.Errors) == 0 {
		return fmt.Errorf("publish failed")
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("publish failed: %s", strings.Join(msgs, "; "))
}

// Failed builds a failed Result from err.
func Failed(err error) Result {
	return Result{Errors: []APIError{{Message: err.Error()}}}
}

// Publisher posts text to one target.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, text string) Result
}
