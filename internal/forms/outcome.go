package forms

type State string

const (
	StateIdle                    State = "idle"
	StateValidating              State = "validating"
	StateValidationFailed        State = "validation_failed"
	StateAccountResolving        State = "account_resolving"
	StateAccountFailed           State = "account_failed"
	StateRecordUpserting         State = "record_upserting"
	StateRecordFailed            State = "record_failed"
	StateAttaching               State = "attaching"
	StatePersisting              State = "persisting"
	StateNotifyingAndRedirecting State = "notifying_and_redirecting"
	StateDone                    State = "done"
)

type Status string

const (
	StatusIgnored  Status = "ignored"
	StatusRerender Status = "rerender"
	StatusRedirect Status = "redirect"
)

// Outcome is the only thing Process hands back to the HTTP layer.
type Outcome struct {
	State    State             `json:"state"`
	Status   Status            `json:"status"`
	Errors   map[string]string `json:"errors,omitempty"`
	Payload  map[string]any    `json:"payload,omitempty"`
	Location string            `json:"location,omitempty"`
	Token    string            `json:"token,omitempty"`

	AccountID string            `json:"account_id,omitempty"`
	RecordID  string            `json:"record_id,omitempty"`
	Warnings  map[string]string `json:"warnings,omitempty"`
}

func ignored() Outcome { return Outcome{State: StateIdle, Status: StatusIgnored} }
