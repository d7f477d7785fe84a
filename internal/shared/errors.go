package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrInvalidFlag   = fmt.Errorf("invalid flag value")

	// Channel and playlist errors
	ErrChannelNotFound    = fmt.Errorf("channel not found")
	ErrPlaylistListing    = fmt.Errorf("playlist listing failed")
	ErrItemUnavailable    = fmt.Errorf("item unavailable")
	ErrDownloadFailed     = fmt.Errorf("download failed")
	ErrPassInProgress     = fmt.Errorf("mirror pass already running")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Storage errors
	ErrStorage = fmt.Errorf("storage error")
)
