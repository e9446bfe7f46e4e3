package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func TestParticipantIDs(t *testing.T) {
	assignment := &Assignment{
		DoctorID:     "doc-1",
		NurseID:      strPtr("nurse-1"),
		PharmacistID: strPtr("pharm-1"),
	}

	assert.Equal(t, []string{"doc-1", "nurse-1", "pharm-1"}, assignment.ParticipantIDs())
}

func TestParticipantIDs_DoctorOnly(t *testing.T) {
	assignment := &Assignment{DoctorID: "doc-1", RadiologistID: strPtr("")}

	assert.Equal(t, []string{"doc-1"}, assignment.ParticipantIDs())
}

func TestIsParticipant(t *testing.T) {
	assignment := &Assignment{
		DoctorID: "doc-1",
		NurseID:  strPtr("nurse-1"),
	}

	assert.True(t, assignment.IsParticipant("doc-1"))
	assert.True(t, assignment.IsParticipant("nurse-1"))
	assert.False(t, assignment.IsParticipant("nurse-2"))
	assert.False(t, assignment.IsParticipant(""))
}

func TestValidAssignmentStatus(t *testing.T) {
	for _, status := range []AssignmentStatus{StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled} {
		assert.True(t, ValidAssignmentStatus(status))
	}
	assert.False(t, ValidAssignmentStatus("archived"))
	assert.False(t, ValidAssignmentStatus(""))
}
