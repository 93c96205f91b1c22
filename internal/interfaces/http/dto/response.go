// Package dto holds the JSON envelopes of the HTTP API.
package dto

import (
	"strings"

	"github.com/movable/backend/internal/domain/shared/result"
)

// Response represents a standard API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Events  []Event    `json:"events,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Event is a non-blocking validation outcome returned next to the data
type Event struct {
	Severity string `json:"severity"`
	Key      string `json:"key"`
	Message  string `json:"message"`
}

// Issue is one reason an operation was rejected
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// IssueList is the body of a rejected operation
type IssueList struct {
	Issues []Issue `json:"issues"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any, events ...result.Event) Response {
	return Response{
		Success: true,
		Data:    data,
		Events:  NewEvents(events),
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message, requestID string) Response {
	return Response{
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// NewEvents converts result events, nil when there are none
func NewEvents(events []result.Event) []Event {
	if len(events) == 0 {
		return nil
	}
	out := make([]Event, 0, len(events))
	for _, e := range events {
		out = append(out, Event{Severity: e.Severity.String(), Key: e.Key, Message: e.Message})
	}
	return out
}

// NewIssueList lists the ERROR events of a rejected result
func NewIssueList(events []result.Event) IssueList {
	issues := make([]Issue, 0, len(events))
	for _, e := range events {
		if e.Severity == result.SeverityError {
			issues = append(issues, Issue{Code: e.Key, Message: e.Message})
		}
	}
	return IssueList{Issues: issues}
}

// IsNotFound reports whether an issue signals a missing record
func (l IssueList) IsNotFound() bool {
	for _, issue := range l.Issues {
		if strings.Contains(issue.Code, result.NotExistKey) {
			return true
		}
	}
	return false
}
