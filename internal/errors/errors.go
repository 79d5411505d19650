package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/vitalcal/internal/constants"
	"github.com/julianstephens/vitalcal/internal/entrysync"
	"github.com/julianstephens/vitalcal/internal/logger"
)

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

// Notice maps an entry sync failure to the short text shown to the user.
// Validation failures, missing tokens and failed loads/saves each get their
// own message; anything else falls back to Format.
func Notice(err error) string {
	if err == nil {
		return ""
	}

	var vErr *entrysync.ValidationError
	if stderrors.As(err, &vErr) && vErr.Field == constants.FieldBloodPressure {
		return constants.NoticeBadBPFormat
	}

	var nErr *entrysync.NetworkError
	if stderrors.As(err, &nErr) {
		if nErr.Kind == entrysync.KindAuth {
			return constants.NoticeMissingToken
		}
		switch nErr.Op {
		case entrysync.OpFetch:
			return constants.NoticeLoadFailed
		case entrysync.OpSave:
			return constants.NoticeSaveFailed
		}
	}

	return Format(err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
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
