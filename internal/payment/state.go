package payment

// Known signature session states. Anything else is reported as unknown rather
// than guessed from a prefix.
var sessionStates = map[string]SessionState{
	"open.running":                                   SessionPending,
	"open.not_running":                               SessionPending,
	"open.not_running.suspended":                     SessionPending,
	"open.not_running.suspended.awaiting_input":      SessionPending,
	"open.not_running.suspended.awaiting_validation": SessionPending,
	"closed.completed":                               SessionCompleted,
	"closed.aborted":                                 SessionFailed,
	"closed.aborted.aborted_by_client":               SessionFailed,
	"closed.aborted.aborted_by_server":               SessionFailed,
}

func ClassifySessionState(state string) SessionState {
	return sessionStates[state]
}
