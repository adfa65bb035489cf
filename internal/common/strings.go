package common

// UnknownStr is what String methods print for out-of-range enum values.
const UnknownStr = "unknown"
