package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/bliss/internal/logger"
)

// Failure classes shared by every page. Callers wrap these with context and
// test for them with errors.Is.
var (
	// ErrNetwork covers transport failures and non-2xx backend responses
	ErrNetwork = errors.New("backend request failed")
	// ErrLocationDenied is returned when location access has been turned off
	ErrLocationDenied = errors.New("location access denied")
	// ErrLocationUnsupported is returned when no location source is available
	ErrLocationUnsupported = errors.New("geolocation not supported")
	// ErrEmpty marks a read that succeeded but returned no saved data
	ErrEmpty = errors.New("no saved data")
)

// Kind names a failure class for display and logging
type Kind string

const (
	KindNone        Kind = ""
	KindNetwork     Kind = "network"
	KindGeolocation Kind = "geolocation"
	KindEmpty       Kind = "empty"
	KindOther       Kind = "other"
)

// Classify maps an error onto the failure taxonomy
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.Is(err, ErrLocationDenied), errors.Is(err, ErrLocationUnsupported):
		return KindGeolocation
	case errors.Is(err, ErrEmpty):
		return KindEmpty
	default:
		return KindOther
	}
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err, "kind", Classify(err))
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
