package web

import (
	"errors"
	"log/slog"
	"strings"
	"unicode"

	"balancehealth/internal/adapters/storage"
)

// StorageNotice is shown when the record store fails; the page renders with empty data.
const StorageNotice = "Patient records are unavailable right now. Please try again."

// isStorageFailure reports whether err is a provider failure rather than bad input.
func isStorageFailure(err error) bool {
	var se *storage.Error
	return errors.As(err, &se)
}

// notice turns a validation or provider error into a sentence for the page.
// Provider details are logged, never shown.
func notice(op string, err error) string {
	if isStorageFailure(err) {
		slog.Error("storage_failure", "op", op, "error", err)
		return StorageNotice
	}
	return sentence(err.Error())
}

// sentence capitalises msg and ends it with a period.
func sentence(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return msg
	}
	r := []rune(msg)
	r[0] = unicode.ToUpper(r[0])
	if !strings.HasSuffix(msg, ".") {
		r = append(r, '.')
	}
	return string(r)
}
