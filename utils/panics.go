package utils

import "fmt"

// RecoverWithError turns a panic in the deferring function into *err.
// Must be called directly with defer.
func RecoverWithError(err *error) {
	if rv := recover(); rv != nil {
		*err = fmt.Errorf("recovered from panic: %v", rv)
	}
}
