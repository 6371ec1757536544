package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"
	InvalidCategory     failure.ErrorCode = "InvalidCategory"
	InvalidDealID       failure.ErrorCode = "InvalidDealID"
	Forbidden           failure.ErrorCode = "Forbidden"

	// Ingestion pipeline.
	SourceUnavailable     failure.ErrorCode = "SourceUnavailable"     // upstream unreachable or non-2xx
	SourceFormatError     failure.ErrorCode = "SourceFormatError"     // 2xx with an unexpected schema
	ProviderFailure       failure.ErrorCode = "ProviderFailure"       // one translation provider failed
	AllProvidersExhausted failure.ErrorCode = "AllProvidersExhausted" // no provider produced a translation
	PersistenceError      failure.ErrorCode = "PersistenceError"
	InvalidRecord         failure.ErrorCode = "InvalidRecord"
	DealNotFound          failure.ErrorCode = "DealNotFound"
	InvalidPayload        failure.ErrorCode = "InvalidPayload"
)
