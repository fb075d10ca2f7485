package appErrors

// Error codes grouped by domain.
const (
	// Authentication and authorization
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Validation
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeInvalidUserRole  ErrorCode = "INVALID_USER_ROLE"
	CodeWeakPassword     ErrorCode = "WEAK_PASSWORD"
	CodeInvalidPlan      ErrorCode = "INVALID_PLAN"

	// Resources
	CodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	CodeMembershipNotFound ErrorCode = "MEMBERSHIP_NOT_FOUND"
	CodeNotFound           ErrorCode = "NOT_FOUND"

	// Business logic
	CodeEmailAlreadyExists      ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeUserNotVerified         ErrorCode = "USER_NOT_VERIFIED"
	CodeInsufficientPermissions ErrorCode = "INSUFFICIENT_PERMISSIONS"
	CodeActiveMembershipExists  ErrorCode = "ACTIVE_MEMBERSHIP_EXISTS"
	CodeNotAnUpgrade            ErrorCode = "NOT_AN_UPGRADE"
	CodeMembershipExpired       ErrorCode = "MEMBERSHIP_EXPIRED"
	CodeInvalidTransition       ErrorCode = "INVALID_TRANSITION"

	// Payment provider boundary
	CodeSignatureInvalid     ErrorCode = "SIGNATURE_INVALID"
	CodeMalformedPayload     ErrorCode = "MALFORMED_PAYLOAD"
	CodeMalformedEvent       ErrorCode = "MALFORMED_EVENT"
	CodePaymentProviderError ErrorCode = "PAYMENT_PROVIDER_ERROR"
	CodePaymentNotCompleted  ErrorCode = "PAYMENT_NOT_COMPLETED"

	// System
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)
