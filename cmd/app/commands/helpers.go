// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/allisson/authtokens/internal/app"
	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// parseExpiresAfter splits a lifetime such as 30m, 12h or 7d into the issuance form's
// expire_type and expire_duration. An empty value means the token never expires.
func parseExpiresAfter(value string) (expireType, expireDuration string, err error) {
	if value == "" {
		return "", "", nil
	}

	amount, suffix := value[:len(value)-1], value[len(value)-1]
	var unit tokenDomain.ExpireUnit
	switch suffix {
	case 'm':
		unit = tokenDomain.ExpireMinutes
	case 'h':
		unit = tokenDomain.ExpireHours
	case 'd':
		unit = tokenDomain.ExpireDays
	default:
		return "", "", fmt.Errorf("invalid expires-after: %s (use a number followed by m, h or d)", value)
	}

	n, convErr := strconv.ParseUint(amount, 10, 63)
	if convErr != nil || n == 0 {
		return "", "", fmt.Errorf("invalid expires-after: %s (use a number followed by m, h or d)", value)
	}
	return string(unit), amount, nil
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, _ = fmt.Fprintln(w, string(jsonBytes))
	return nil
}
