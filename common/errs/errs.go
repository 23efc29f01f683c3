package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound           = ErrorKind("Not Found")
	InvalidArgument    = ErrorKind("invalid argument")
	Unsupported        = ErrorKind("unsupported")
	SomethingWentWrong = ErrorKind("something went wrong")

	// Token creation errors.
	WalletNotConnected    = ErrorKind("wallet not connected")
	InvalidSupply         = ErrorKind("invalid supply")
	InvalidConfiguration  = ErrorKind("invalid configuration")
	PublishFailure        = ErrorKind("publish failure")
	AllEndpointsExhausted = ErrorKind("all endpoints exhausted")
	InsufficientFunds     = ErrorKind("insufficient funds")
	TransactionFailure    = ErrorKind("transaction failure")
	ConfirmationTimeout   = ErrorKind("confirmation timeout")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
