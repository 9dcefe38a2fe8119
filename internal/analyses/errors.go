package analyses

import "errors"

var ErrNotFound = errors.New("not found")

const (
	ErrorCodeValidation            = "VALIDATION_ERROR"
	ErrorCodeParse                 = "PARSE_ERROR"
	ErrorCodeExtractionUnavailable = "EXTRACTION_UNAVAILABLE"
	ErrorCodeExtractionTransport   = "EXTRACTION_TRANSPORT_ERROR"
	ErrorCodeStorage               = "STORAGE_ERROR"
	ErrorCodeInternal              = "INTERNAL_ERROR"
)
