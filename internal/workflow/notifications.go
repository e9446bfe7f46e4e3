package workflow

import (
	"fmt"

	"github.com/carelink/hms-core/pkg/types"
)

// PatientLabel renders a patient reference for notification bodies. The name
// may be unavailable when the patient record is missing; the identifier alone
// still names the subject.
func PatientLabel(name, patientID string) string {
	if name != "" {
		return fmt.Sprintf("%s (#%s)", name, patientID)
	}
	return fmt.Sprintf("patient #%s", patientID)
}

// slotNotification builds the notification for one populated assignee slot.
// Pharmacists get a pharmacy-specific message; the other clinical roles share
// the generic assignment wording.
func slotNotification(role types.StaffRole, recipientID, patientLabel, serviceType, doctorName, assignmentID string) *types.Notification {
	n := &types.Notification{
		RecipientStaffID:    recipientID,
		RelatedAssignmentID: &assignmentID,
	}

	switch role {
	case types.RoleNurse:
		n.Title = "New Nurse Assignment"
	case types.RoleRadiologist:
		n.Title = "New Radiology Assignment"
	case types.RoleLab:
		n.Title = "New Lab Assignment"
	case types.RolePharmacist:
		n.Title = "New Pharmacy Task"
		n.Message = fmt.Sprintf("Prescription queued for %s. Assigned by %s.", patientLabel, doctorName)
		return n
	}

	n.Message = fmt.Sprintf("You have been assigned to %s for %s. Assigned by %s.", patientLabel, serviceType, doctorName)
	return n
}

// completionNotification tells the creating doctor that a participant marked
// the assignment completed.
func completionNotification(doctorID, patientLabel, actorName, assignmentID string) *types.Notification {
	return &types.Notification{
		RecipientStaffID:    doctorID,
		Title:               "Task completed",
		Message:             fmt.Sprintf("%s task marked completed by %s.", patientLabel, actorName),
		RelatedAssignmentID: &assignmentID,
	}
}

// reportNotification tells a doctor that a new report was filed for one of
// their patients. Reports are not tied to a single assignment.
func reportNotification(doctorID, patientLabel, reportType, actorName string) *types.Notification {
	return &types.Notification{
		RecipientStaffID: doctorID,
		Title:            "New report uploaded",
		Message:          fmt.Sprintf("%s: %s added by %s.", patientLabel, reportType, actorName),
	}
}
