package types

// Envelope is the base shape of every webhook response. Success payloads
// embed it with ok=true plus operation-specific fields; failures carry
// ok=false and a single error string.
type Envelope struct {
	OK bool `json:"ok"`
}

// ErrorEnvelope is the wire shape for every failed operation.
type ErrorEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// QuoteIntakeResponse is returned after a supplier quote is accepted.
type QuoteIntakeResponse struct {
	OK                   bool   `json:"ok"`
	QuoteID              string `json:"quote_id"`
	ProcurementRequestID string `json:"procurement_request_id"`
	Status               string `json:"status"`
}

// OrderConfirmationResponse echoes the request and its resulting status.
type OrderConfirmationResponse struct {
	OK                   bool   `json:"ok"`
	ProcurementRequestID string `json:"procurement_request_id"`
	Status               string `json:"status"`
}

// SupplierCandidate is one entry of the ordered candidate list.
type SupplierCandidate struct {
	SupplierID   string `json:"supplier_id"`
	SupplierName string `json:"supplier_name"`
	Phone        string `json:"phone"`
	Source       string `json:"source"`
	Priority     int    `json:"priority"`
}

// SupplierCandidatesResponse wraps the ordered candidate list.
type SupplierCandidatesResponse struct {
	OK         bool                `json:"ok"`
	Candidates []SupplierCandidate `json:"candidates"`
}
