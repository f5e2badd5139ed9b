// File: internal/property/status.go
package property

// AssignmentStatus captures where a property sits in the publication
// workflow. pending properties are private to their assigned user,
// published and approved properties are publicly enumerable.
type AssignmentStatus string

const (
	StatusPending   AssignmentStatus = "pending"
	StatusApproved  AssignmentStatus = "approved"
	StatusPublished AssignmentStatus = "published"
)

// PublicStatuses is the status set included in the public listing feed.
var PublicStatuses = []AssignmentStatus{StatusPublished, StatusApproved}

// IsPublic reports whether the status makes a property publicly
// enumerable.
func (s AssignmentStatus) IsPublic() bool {
	return s == StatusPublished || s == StatusApproved
}

// IsValid reports whether the status is one of the closed set.
func (s AssignmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusPublished:
		return true
	}
	return false
}

// StatusDisplay carries presentation metadata for a status value.
type StatusDisplay struct {
	Label    string `json:"label"`
	Severity string `json:"severity"`
}

var statusDisplays = map[AssignmentStatus]StatusDisplay{
	StatusPending:   {Label: "Awaiting Approval", Severity: "warning"},
	StatusApproved:  {Label: "Approved", Severity: "success"},
	StatusPublished: {Label: "Published", Severity: "success"},
}

// Display returns presentation metadata for the status. Unknown values
// get the pending treatment so a bad row renders instead of breaking the
// page.
func (s AssignmentStatus) Display() StatusDisplay {
	if d, ok := statusDisplays[s]; ok {
		return d
	}
	return statusDisplays[StatusPending]
}

// ParseAssignmentStatus maps a raw string onto the closed status set.
// Unknown input falls back to pending, mirroring Display's fail-safe.
func ParseAssignmentStatus(raw string) AssignmentStatus {
	s := AssignmentStatus(raw)
	if s.IsValid() {
		return s
	}
	return StatusPending
}
