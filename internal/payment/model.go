package payment

import (
	"sepagateway/internal/mandate"
)

// Relations followed on the processor API.
const (
	RelGetMandates        = "get-mandates"
	RelCreateOrders       = "create-orders"
	RelGetOrders          = "get-orders"
	RelGetMandate         = "get-mandate"
	RelCreateDirectDebits = "create-direct-debits"
	RelGetDirectDebits    = "get-direct-debits"
	RelUserApproval       = "user-approval"
)

// EntryPointRelations are the relations the API root is expected to expose.
var EntryPointRelations = []string{
	RelGetMandates,
	RelCreateOrders,
	RelGetOrders,
	RelCreateDirectDebits,
	RelGetDirectDebits,
}

type Path int

const (
	PathChargeDirect Path = iota + 1
	PathInitiateSignature
)

func (p Path) String() string {
	switch p {
	case PathChargeDirect:
		return "charge_direct"
	case PathInitiateSignature:
		return "initiate_signature"
	default:
		return "unknown"
	}
}

type Decision struct {
	Path     Path
	Identity mandate.Identity
	Mandate  mandate.Mandate
}

type Outcome string

const (
	OutcomeRedirect  Outcome = "redirect"
	OutcomeCompleted Outcome = "completed"
)

type CheckoutResult struct {
	Result        string `json:"result"`
	Redirect      string `json:"redirect"`
	TransactionID string `json:"transaction_id,omitempty"`
}

type CallbackResult struct {
	Outcome       Outcome `json:"outcome"`
	OrderID       string  `json:"order_id"`
	Redirect      string  `json:"redirect"`
	TransactionID string  `json:"transaction_id,omitempty"`
}

type DirectDebit struct {
	ID               string `json:"id"`
	Amount           string `json:"amount"`
	Label            string `json:"label"`
	PaymentReference string `json:"paymentReference"`
	ExecutionDate    string `json:"executionDate"`
	State            string `json:"state"`
}

type SessionState int

const (
	SessionUnknown SessionState = iota
	SessionPending
	SessionCompleted
	SessionFailed
)

func (s SessionState) String() string {
	switch s {
	case SessionPending:
		return "pending"
	case SessionCompleted:
		return "completed"
	case SessionFailed:
		return "failed"
	default:
		return "unknown"
	}
}
