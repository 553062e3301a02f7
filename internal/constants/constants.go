package constants

const (
	// ContextKeyUserID is the gin context key holding the authenticated user ID.
	ContextKeyUserID = "user_id"

	// ContextKeyAccess is the gin context key holding the caller's access
	// level for the subject loaded by the membership middleware.
	ContextKeyAccess = "subject_access"

	// MinPasswordLength is the minimum accepted password length at signup.
	MinPasswordLength = 8

	// ResetCodeLength is the number of digits in a password reset code.
	ResetCodeLength = 6
)
