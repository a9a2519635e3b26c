package log

// Canonical field name constants for structured logging.
const (
	FieldComponent = "component"
	FieldEvent     = "event"
	FieldRequestID = "request_id"

	// Store / cache fields
	FieldUserID  = "user_id"
	FieldKey     = "key"
	FieldBackend = "backend"

	// Path fields
	FieldPath = "path"

	// Network fields
	FieldAddr       = "addr"
	FieldRemoteAddr = "remote_addr"
	FieldProto      = "proto"

	// Device fields
	FieldDeviceID = "device_id"
	FieldOldState = "old_state"
	FieldNewState = "new_state"

	// Worker fields
	FieldWorker = "worker"
	FieldJobs   = "jobs"
)
