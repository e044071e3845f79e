package storage

const (
	// UnknownTimestamp stands in for a provider timestamp that was not supplied.
	UnknownTimestamp = "Unknown"

	spotKeyPrefix     = "hedging:spot:"
	interestKeyPrefix = "hedging:interest:"
)
