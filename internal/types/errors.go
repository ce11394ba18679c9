package types

// ErrorKind tags a failed invocation with a coarse category.
// The error text stays the primary channel; the kind is advisory.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "NotFound"
	KindPermissionDenied ErrorKind = "PermissionDenied"
	KindAlreadyExists    ErrorKind = "AlreadyExists"
	KindInvalidKind      ErrorKind = "InvalidKind"
	KindIO               ErrorKind = "Io"
	KindUnknownCommand   ErrorKind = "UnknownCommand"
	KindInvalidArgs      ErrorKind = "InvalidArgs"
)
