package constants

// Event types published on the internal bus
const (
	// EventImageUploaded fires after a successful upload commit
	EventImageUploaded = "image.uploaded"

	// EventImageEdited fires when an owner changes image metadata
	EventImageEdited = "image.edited"

	// EventImageApproved fires when an approver publishes an image
	EventImageApproved = "image.approved"

	// EventImageUnapproved fires when an approver pulls an image back
	EventImageUnapproved = "image.unapproved"

	// EventImageDeleted fires when an owner deletes an image
	EventImageDeleted = "image.deleted"

	// EventUserDeactivated fires when an admin deactivates an account
	EventUserDeactivated = "user.deactivated"

	// EventUserReactivated fires when an admin reactivates an account
	EventUserReactivated = "user.reactivated"
)
