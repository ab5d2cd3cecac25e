// Package utils provides common utility functions for the media-catalog application.
// It includes helpers for converting driver-specific column values (int64, []byte,
// string, NULL) into plain Go types.
package utils
