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
	FieldUserAgent  = "user_agent"
	FieldReferer    = "referer"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldRowLabel   = "row_label"
	FieldColumn     = "column"
	FieldRemarkKey  = "remark_key"
	FieldRemarkLen  = "remark_length"
	FieldRows       = "rows"
	FieldColumns    = "columns"
	FieldSource     = "source"
	FieldSheet      = "sheet"
	FieldCount      = "count"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentRemarks   = "remarks"
	ComponentStatement = "statement"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorkbook  = "workbook"
	ComponentCache     = "cache"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
	ComponentTemplate  = "template"
	ComponentExport    = "export"
	ComponentApproval  = "approval"
)

// Operations defines standard operation names
const (
	OpRead     = "read"
	OpSave     = "save"
	OpDelete   = "delete"
	OpClear    = "clear"
	OpList     = "list"
	OpImport   = "import"
	OpProject  = "project"
	OpRender   = "render"
	OpExport   = "export"
	OpApprove  = "approve"
	OpValidate = "validate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError adds the error message; nil errors add nothing.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithRemark adds the cell coordinates of a remark and the length of its
// text. The text itself is never logged.
func (f LogFields) WithRemark(row, column string, textLen int) LogFields {
	f[FieldRowLabel] = row
	f[FieldColumn] = column
	f[FieldRemarkLen] = textLen
	return f
}

// WithStatement adds the shape of a projected statement.
func (f LogFields) WithStatement(rows, columns int) LogFields {
	f[FieldRows] = rows
	f[FieldColumns] = columns
	return f
}

func (f LogFields) WithHTTPRequest(method, path, query, userAgent, referer string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	f[FieldUserAgent] = userAgent
	f[FieldReferer] = referer
	return f
}

func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
