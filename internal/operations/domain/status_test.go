package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
)

func TestAssignmentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    domain.AssignmentStatus
		to      domain.AssignmentStatus
		allowed bool
	}{
		{domain.AssignmentAssigned, domain.AssignmentReceived, true},
		{domain.AssignmentReceived, domain.AssignmentPacked, true},
		{domain.AssignmentPacked, domain.AssignmentDispatched, true},
		{domain.AssignmentDispatched, domain.AssignmentDelivered, true},

		// No skipping steps
		{domain.AssignmentAssigned, domain.AssignmentPacked, false},
		{domain.AssignmentReceived, domain.AssignmentDispatched, false},

		// No moving backwards
		{domain.AssignmentPacked, domain.AssignmentReceived, false},
		{domain.AssignmentDelivered, domain.AssignmentDispatched, false},

		// Cancellation only before dispatch
		{domain.AssignmentAssigned, domain.AssignmentCancelled, true},
		{domain.AssignmentReceived, domain.AssignmentCancelled, true},
		{domain.AssignmentPacked, domain.AssignmentCancelled, true},
		{domain.AssignmentDispatched, domain.AssignmentCancelled, false},
		{domain.AssignmentDelivered, domain.AssignmentCancelled, false},

		// Terminal states stay terminal
		{domain.AssignmentCancelled, domain.AssignmentAssigned, false},
		{domain.AssignmentDelivered, domain.AssignmentDelivered, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestAssignmentStatus_CountsAsDemand(t *testing.T) {
	assert.True(t, domain.AssignmentAssigned.CountsAsDemand())
	assert.True(t, domain.AssignmentReceived.CountsAsDemand())
	assert.True(t, domain.AssignmentPacked.CountsAsDemand())

	assert.False(t, domain.AssignmentDispatched.CountsAsDemand())
	assert.False(t, domain.AssignmentDelivered.CountsAsDemand())
	assert.False(t, domain.AssignmentCancelled.CountsAsDemand())
}

func TestAssignmentStatus_Valid(t *testing.T) {
	assert.True(t, domain.AssignmentAssigned.Valid())
	assert.True(t, domain.AssignmentCancelled.Valid())
	assert.False(t, domain.AssignmentStatus("shipped").Valid())
}

func TestJobStatus_Transitions(t *testing.T) {
	assert.True(t, domain.JobAssigned.CanTransitionTo(domain.JobInProgress))
	assert.True(t, domain.JobAssigned.CanTransitionTo(domain.JobCancelled))
	assert.True(t, domain.JobInProgress.CanTransitionTo(domain.JobCompleted))
	assert.True(t, domain.JobInProgress.CanTransitionTo(domain.JobCancelled))

	assert.False(t, domain.JobAssigned.CanTransitionTo(domain.JobCompleted))
	assert.False(t, domain.JobCompleted.CanTransitionTo(domain.JobInProgress))
	assert.False(t, domain.JobCancelled.CanTransitionTo(domain.JobAssigned))
}

func TestJobStatus_Active(t *testing.T) {
	assert.True(t, domain.JobAssigned.Active())
	assert.True(t, domain.JobInProgress.Active())
	assert.False(t, domain.JobCompleted.Active())
	assert.False(t, domain.JobCancelled.Active())
}

func TestItemType_Valid(t *testing.T) {
	assert.True(t, domain.ItemRaw.Valid())
	assert.True(t, domain.ItemSealedPacket.Valid())
	assert.False(t, domain.ItemType("liquid").Valid())
}

func TestClient_DisplayName(t *testing.T) {
	org := "Globex"
	name := "Jane"
	email := "jane@example.com"
	empty := ""

	tests := []struct {
		label  string
		client domain.Client
		want   string
	}{
		{"organization wins", domain.Client{Organization: &org, Name: &name}, "Globex"},
		{"name next", domain.Client{Name: &name, Email: &email}, "Jane"},
		{"email last", domain.Client{Email: &email}, "jane@example.com"},
		{"empty strings skipped", domain.Client{Organization: &empty, Email: &email}, "jane@example.com"},
		{"nothing set", domain.Client{}, "Unknown Client"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.client.DisplayName())
		})
	}
}
