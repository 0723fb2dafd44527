package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrRegistrationFailed ErrCode = "REGISTRATION_FAILED"
	ErrSessionRequired    ErrCode = "SESSION_REQUIRED"
	ErrSessionExpired     ErrCode = "SESSION_EXPIRED"
	ErrTokenUnreadable    ErrCode = "TOKEN_UNREADABLE"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrTeacherAccessOnly ErrCode = "TEACHER_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Attempt-specific ──────────────────────────────────────────────
	ErrAttemptStartFailed  ErrCode = "ATTEMPT_START_FAILED"
	ErrAttemptFinished     ErrCode = "ATTEMPT_FINISHED"
	ErrAttemptFinishFailed ErrCode = "ATTEMPT_FINISH_FAILED"
	ErrAttemptNotStarted   ErrCode = "ATTEMPT_NOT_STARTED"
	ErrAnswerRejected      ErrCode = "ANSWER_REJECTED"
	ErrNoCurrentQuestion   ErrCode = "NO_CURRENT_QUESTION"

	// ─── Wizard-specific ───────────────────────────────────────────────
	ErrWizardStep        ErrCode = "WIZARD_STEP_INVALID"
	ErrWizardSaveFailed  ErrCode = "WIZARD_SAVE_FAILED"
	ErrWizardPartialSave ErrCode = "WIZARD_PARTIAL_SAVE"

	// ─── Upstream ──────────────────────────────────────────────────────
	ErrUpstreamUnavailable ErrCode = "UPSTREAM_UNAVAILABLE"
	ErrUpstreamRejected    ErrCode = "UPSTREAM_REJECTED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid credentials"
	case ErrRegistrationFailed:
		return "Registration failed"
	case ErrSessionRequired:
		return "You must be logged in to access this resource."
	case ErrSessionExpired:
		return "Your session has expired. Please log in again."
	case ErrTokenUnreadable:
		return "The stored login could not be read. Please log in again."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrTeacherAccessOnly:
		return "This resource is restricted to teachers."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."

	// ─── Attempt-specific ──────────────────────────────────────────────
	case ErrAttemptStartFailed:
		return "Failed to start attempt"
	case ErrAttemptFinished:
		return "This attempt has already been finished."
	case ErrAttemptFinishFailed:
		return "Failed to finish attempt"
	case ErrAttemptNotStarted:
		return "No attempt is in progress for this quiz."
	case ErrAnswerRejected:
		return "Failed to submit answer"
	case ErrNoCurrentQuestion:
		return "There is no question at the current position."

	// ─── Wizard-specific ───────────────────────────────────────────────
	case ErrWizardStep:
		return "That action is not valid at the current wizard step."
	case ErrWizardSaveFailed:
		return "Failed to save question"
	case ErrWizardPartialSave:
		return "The question was created but some choices failed to save."

	// ─── Upstream ──────────────────────────────────────────────────────
	case ErrUpstreamUnavailable:
		return "The quiz service is unreachable. Please try again."
	case ErrUpstreamRejected:
		return "The quiz service rejected the request."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
