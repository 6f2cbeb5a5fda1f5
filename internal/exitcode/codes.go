package exitcode

// Exit codes for the extraction CLI.
// Dagster can use these to decide retry strategy.
const (
	// Success - job completed successfully
	Success = 0

	// ConfigError - missing or invalid configuration
	// Don't retry: fix the config first
	ConfigError = 1

	// NetworkError - transient network failure (DNS, timeout, etc.)
	// Retry with backoff
	NetworkError = 2

	// SinkError - failed to write grid points to ClickHouse
	// Retry with backoff
	SinkError = 3

	// StorageError - failed to read the raw object from MinIO/S3
	// Retry with backoff
	StorageError = 4

	// DataError - object decoded to nothing usable (bad GRIB, missing field)
	// Don't retry: investigate the data
	DataError = 5
)
