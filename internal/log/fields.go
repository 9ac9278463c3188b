package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldDatasetKey = "dataset_key"
	FieldRows       = "rows"
	FieldCacheHit   = "cache_hit"
	FieldBackend    = "backend"
	FieldView       = "view"
	FieldCategory   = "category"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentIngest    = "ingest"
	ComponentNormalize = "normalize"
	ComponentReport    = "report"
	ComponentSession   = "session"
	ComponentStorage   = "storage"
	ComponentCache     = "cache"
	ComponentRateLimit = "rate_limit"
)

// Operations defines standard operation names
const (
	OpIngest   = "ingest"
	OpReport   = "report"
	OpList     = "list"
	OpParse    = "parse"
	OpValidate = "validate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
