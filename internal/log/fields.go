package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldTransactionCount = "transaction_count"
	FieldValidCount       = "valid_count"
	FieldInvalidCount     = "invalid_count"
	FieldWindowCount      = "window_count"
	FieldPreset           = "preset"
)

// Components defines standard component names
const (
	ComponentApp  = "app"
	ComponentHTTP = "http"
)

// Operations defines standard operation names
const (
	OpParse    = "parse"
	OpValidate = "validate"
	OpFilter   = "filter"
	OpReturns  = "returns"
	OpShutdown = "shutdown"
)
