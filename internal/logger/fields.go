package logger

// Standard field keys for structured logging. Use these consistently so
// discard activity can be filtered and aggregated uniformly.
const (
	KeyRequestID = "request_id" // correlation ID assigned per discard request
	KeyPath      = "path"       // target file or device path
	KeyOffset    = "offset"     // byte offset of the range
	KeyLength    = "length"     // byte length of the range
	KeyBlockSize = "block_size" // filesystem block size in bytes
	KeyOp        = "op"         // failing sub-operation label
	KeyDuration  = "duration"   // operation duration
	KeyError     = "error"      // error value
)
