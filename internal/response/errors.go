package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidInput   ErrCode = "INVALID_INPUT"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Quiz pipeline ─────────────────────────────────────────────────
	ErrQuizNotFound       ErrCode = "QUIZ_NOT_FOUND"
	ErrAttemptNotFound    ErrCode = "ATTEMPT_NOT_FOUND"
	ErrDailyTaskNotFound  ErrCode = "DAILY_TASK_NOT_FOUND"
	ErrDuplicateDailyTask ErrCode = "DUPLICATE_DAILY_TASK"
	ErrAlreadyAttempted   ErrCode = "ALREADY_ATTEMPTED"
	ErrDailyTaskInUse     ErrCode = "DAILY_TASK_IN_USE"
	ErrInvalidQuestion    ErrCode = "INVALID_QUESTION"
	ErrExtractionFailed   ErrCode = "EXTRACTION_FAILED"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrTooManyFiles    ErrCode = "TOO_MANY_FILES"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You are not allowed to access this resource."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidInput:
		return "The request input is invalid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrDependencyExists:
		return "The resource is still referenced and cannot be deleted."

	// ─── Quiz pipeline ─────────────────────────────────────────────────
	case ErrQuizNotFound:
		return "Quiz not found."
	case ErrAttemptNotFound:
		return "Quiz attempt not found."
	case ErrDailyTaskNotFound:
		return "Daily task not found or inactive."
	case ErrDuplicateDailyTask:
		return "An active daily task already exists for this date and subject."
	case ErrAlreadyAttempted:
		return "You have already attempted this daily challenge."
	case ErrDailyTaskInUse:
		return "The daily task has quizzes or attempts and cannot be deleted."
	case ErrInvalidQuestion:
		return "Every question must have exactly one correct option."
	case ErrExtractionFailed:
		return "No text could be extracted from the uploaded images."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "At least one image upload is required."
	case ErrTooManyFiles:
		return "Too many images in one upload."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "File size exceeds the limit."

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
