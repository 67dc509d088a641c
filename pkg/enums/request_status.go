package enums

import "fmt"

// RequestStatus maps to the procurement_request_status enum in Postgres.
type RequestStatus string

const (
	RequestStatusWaitingForQuotes   RequestStatus = "waiting_for_quotes"
	RequestStatusQuotesReceived     RequestStatus = "quotes_received"
	RequestStatusWaitingForApproval RequestStatus = "waiting_for_approval"
	RequestStatusApproved           RequestStatus = "approved"
	RequestStatusOrdered            RequestStatus = "ordered"
	RequestStatusConfirmed          RequestStatus = "confirmed"
	RequestStatusCancelled          RequestStatus = "cancelled"
)

var validRequestStatuses = []RequestStatus{
	RequestStatusWaitingForQuotes,
	RequestStatusQuotesReceived,
	RequestStatusWaitingForApproval,
	RequestStatusApproved,
	RequestStatusOrdered,
	RequestStatusConfirmed,
	RequestStatusCancelled,
}

// IsValid checks whether the given status matches the canonical enum.
func (s RequestStatus) IsValid() bool {
	for _, candidate := range validRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are legal from s.
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case RequestStatusOrdered, RequestStatusConfirmed, RequestStatusCancelled:
		return true
	}
	return false
}

// IsTerminalSuccess reports whether s is one of the two success terminals.
func (s RequestStatus) IsTerminalSuccess() bool {
	return s == RequestStatusOrdered || s == RequestStatusConfirmed
}

// ParseRequestStatus converts raw strings into RequestStatus.
func ParseRequestStatus(value string) (RequestStatus, error) {
	for _, candidate := range validRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request status %q", value)
}
