package procurement

import "github.com/surtidoapp/procurement-backend/pkg/enums"

// legalTransitions is the authoritative edge set of the request lifecycle.
// Cancellation and order confirmation are handled by CanCancel/CanConfirm
// because they are reachable from multiple states.
var legalTransitions = map[enums.RequestStatus][]enums.RequestStatus{
	enums.RequestStatusWaitingForQuotes:   {enums.RequestStatusQuotesReceived},
	enums.RequestStatusQuotesReceived:     {enums.RequestStatusWaitingForApproval},
	enums.RequestStatusWaitingForApproval: {enums.RequestStatusApproved},
	enums.RequestStatusApproved:           {enums.RequestStatusOrdered, enums.RequestStatusConfirmed},
}

// CanTransition reports whether the forward edge from one status to the
// next is legal. Terminal states have no outgoing edges.
func CanTransition(from, to enums.RequestStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanCancel reports whether the request may still be cancelled. Cancellation
// is accepted from any state except the two terminal-success states.
func CanCancel(status enums.RequestStatus) bool {
	return !status.IsTerminalSuccess() && status != enums.RequestStatusCancelled
}

// CanConfirm reports whether an external order-confirmation event may land.
// Only a cancelled request rejects confirmation; re-confirming an already
// ordered request is accepted because suppliers legitimately resend.
func CanConfirm(status enums.RequestStatus) bool {
	return status != enums.RequestStatusCancelled
}
