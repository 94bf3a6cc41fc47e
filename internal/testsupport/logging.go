// Package testsupport disables zerolog output during test runs unless
// explicitly enabled, so `go test` output isn't drowned in log lines.
package testsupport

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func init() {
	if isTesting() && os.Getenv("CONDUCTOR_TEST_LOG") == "" {
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}
}

func isTesting() bool {
	return testing.Testing() || os.Getenv("GO_TEST") != ""
}
