// File: internal/property/status_test.go
package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignmentStatus_IsPublic(t *testing.T) {
	assert.True(t, StatusPublished.IsPublic())
	assert.True(t, StatusApproved.IsPublic())
	assert.False(t, StatusPending.IsPublic())
	assert.False(t, AssignmentStatus("archived").IsPublic())
}

func TestAssignmentStatus_IsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusApproved.IsValid())
	assert.True(t, StatusPublished.IsValid())
	assert.False(t, AssignmentStatus("").IsValid())
	assert.False(t, AssignmentStatus("PENDING").IsValid())
}

func TestAssignmentStatus_Display(t *testing.T) {
	assert.Equal(t, StatusDisplay{Label: "Awaiting Approval", Severity: "warning"}, StatusPending.Display())
	assert.Equal(t, StatusDisplay{Label: "Published", Severity: "success"}, StatusPublished.Display())
	assert.Equal(t, StatusDisplay{Label: "Approved", Severity: "success"}, StatusApproved.Display())

	// An unrecognized value renders like pending instead of breaking
	// the page.
	assert.Equal(t, StatusPending.Display(), AssignmentStatus("garbage").Display())
}

func TestParseAssignmentStatus(t *testing.T) {
	assert.Equal(t, StatusApproved, ParseAssignmentStatus("approved"))
	assert.Equal(t, StatusPublished, ParseAssignmentStatus("published"))
	assert.Equal(t, StatusPending, ParseAssignmentStatus("pending"))
	assert.Equal(t, StatusPending, ParseAssignmentStatus("garbage"))
	assert.Equal(t, StatusPending, ParseAssignmentStatus(""))
}
