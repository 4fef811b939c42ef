package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// ============================================
// Tracing Fields (Context level)
// ============================================

const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldFunction is the invoked function name (generate-image, speech-to-text, ...)
	FieldFunction = "function"

	// FieldRecordID is the generated image record ID
	FieldRecordID = "record_id"

	// FieldTable is the table a realtime subscription listens on
	FieldTable = "table"
)

// ============================================
// Metric Fields (Entry level)
// ============================================

const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldSize is the payload size in bytes
	FieldSize = "size"

	// FieldStatus is the HTTP or operation status
	FieldStatus = "status"
)
