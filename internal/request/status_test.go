// File: internal/request/status_test.go
package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusApproved.IsValid())
	assert.True(t, StatusRejected.IsValid())
	assert.True(t, StatusContacted.IsValid())
	assert.True(t, StatusCompleted.IsValid())
	assert.True(t, StatusCancelled.IsValid())
	assert.False(t, RequestStatus("").IsValid())
	assert.False(t, RequestStatus("PENDING").IsValid())
}

func TestRequestStatus_Display(t *testing.T) {
	assert.Equal(t, StatusDisplay{Label: "Pending", Severity: "warning"}, StatusPending.Display())
	assert.Equal(t, StatusDisplay{Label: "Approved", Severity: "success"}, StatusApproved.Display())
	assert.Equal(t, StatusDisplay{Label: "Rejected", Severity: "danger"}, StatusRejected.Display())
	assert.Equal(t, StatusDisplay{Label: "Contacted", Severity: "info"}, StatusContacted.Display())
	assert.Equal(t, StatusDisplay{Label: "Completed", Severity: "success"}, StatusCompleted.Display())
	assert.Equal(t, StatusDisplay{Label: "Cancelled", Severity: "danger"}, StatusCancelled.Display())

	// An unrecognized value stored in an old row renders like pending
	// instead of breaking the queue view.
	assert.Equal(t, StatusPending.Display(), RequestStatus("garbage").Display())
	assert.Equal(t, StatusPending.Display(), RequestStatus("").Display())
}

func TestParseRequestStatus(t *testing.T) {
	assert.Equal(t, StatusApproved, ParseRequestStatus("approved"))
	assert.Equal(t, StatusContacted, ParseRequestStatus("contacted"))
	assert.Equal(t, StatusPending, ParseRequestStatus("pending"))
	assert.Equal(t, StatusPending, ParseRequestStatus("garbage"))
	assert.Equal(t, StatusPending, ParseRequestStatus(""))
}

func TestToRequestResponse_CarriesStatusDisplay(t *testing.T) {
	req := &PurchaseRequest{Status: StatusRejected}
	resp := ToRequestResponse(req)
	assert.Equal(t, StatusRejected, resp.Status)
	assert.Equal(t, StatusDisplay{Label: "Rejected", Severity: "danger"}, resp.StatusDisplay)

	req.Status = RequestStatus("bogus")
	resp = ToRequestResponse(req)
	assert.Equal(t, StatusPending.Display(), resp.StatusDisplay)
}
