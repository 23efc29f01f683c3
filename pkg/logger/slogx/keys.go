package slogx

// ErrorKey is the attribute key used for error values.
const ErrorKey = "error"
