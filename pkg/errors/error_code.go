package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPeriod        ErrorCode = 102
	ErrCodeInvalidTransaction   ErrorCode = 103

	// Data integrity errors (200-299). These are fatal: all downstream
	// accounting would be invalid, so the run must abort.
	ErrCodeUnsortedQuoteIndex ErrorCode = 200
	ErrCodeNegativeShares     ErrorCode = 201

	// Quote store errors (300-399)
	ErrCodeDataNotFound          ErrorCode = 300
	ErrCodeQueryFailed           ErrorCode = 301
	ErrCodeDataSourceUnavailable ErrorCode = 302

	// Indicator errors (400-499)
	ErrCodeIndicatorNotFound      ErrorCode = 400
	ErrCodeIndicatorAlreadyExists ErrorCode = 401
	ErrCodeIndicatorCalculation   ErrorCode = 402
	ErrCodeInvalidIndicatorKey    ErrorCode = 403

	// Strategy errors (500-599)
	ErrCodeStrategyNotFound      ErrorCode = 500
	ErrCodeStrategyAlreadyExists ErrorCode = 501

	// Sizing/broker errors (600-699)
	ErrCodeUnknownSizingMethod ErrorCode = 600
	ErrCodeUnknownBroker       ErrorCode = 601

	// Portfolio/persistence errors (700-799)
	ErrCodePersistenceFailed ErrorCode = 700
	ErrCodeSnapshotMismatch  ErrorCode = 701
)
