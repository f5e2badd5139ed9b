// File: internal/request/status.go
package request

// RequestStatus captures the purchase-request lifecycle. An admin
// decision moves pending to approved or rejected; the downstream states
// track what happened after an approval.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusContacted RequestStatus = "contacted"
	StatusCompleted RequestStatus = "completed"
	StatusCancelled RequestStatus = "cancelled"
)

// IsValid reports whether the status is one of the closed set.
func (s RequestStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusContacted, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsDecided reports whether the request has left the pending state.
func (s RequestStatus) IsDecided() bool {
	return s != StatusPending && s.IsValid()
}

// downstreamTransitions lists which post-decision moves an admin may
// record. Rejected requests are terminal.
var downstreamTransitions = map[RequestStatus][]RequestStatus{
	StatusApproved:  {StatusContacted, StatusCompleted, StatusCancelled},
	StatusContacted: {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether the downstream move is allowed.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range downstreamTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StatusDisplay carries presentation metadata for a status value.
type StatusDisplay struct {
	Label    string `json:"label"`
	Severity string `json:"severity"`
}

var statusDisplays = map[RequestStatus]StatusDisplay{
	StatusPending:   {Label: "Pending", Severity: "warning"},
	StatusApproved:  {Label: "Approved", Severity: "success"},
	StatusRejected:  {Label: "Rejected", Severity: "danger"},
	StatusContacted: {Label: "Contacted", Severity: "info"},
	StatusCompleted: {Label: "Completed", Severity: "success"},
	StatusCancelled: {Label: "Cancelled", Severity: "danger"},
}

// Display returns presentation metadata for the status. Unknown values
// get the pending treatment so a bad row renders instead of breaking the
// queue view.
func (s RequestStatus) Display() StatusDisplay {
	if d, ok := statusDisplays[s]; ok {
		return d
	}
	return statusDisplays[StatusPending]
}

// ParseRequestStatus maps a raw string onto the closed status set.
// Unknown input falls back to pending, mirroring Display's fail-safe.
func ParseRequestStatus(raw string) RequestStatus {
	s := RequestStatus(raw)
	if s.IsValid() {
		return s
	}
	return StatusPending
}
