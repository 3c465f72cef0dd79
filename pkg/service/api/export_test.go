package api

// Export internal functions for testing
var (
	DecodeEnvelope = decodeEnvelope
	ParseError     = parseError
)
