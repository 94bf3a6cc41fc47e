package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
)

// verboseEvent writes one structured per-event line to stderr when
// --verbose is set, and always writes the same information to the debug log.
// This is the whole of conductor's "terminal logging format" surface;
// richer live rendering is explicitly out of scope.
func verboseEvent(w io.Writer, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if runFlags.verbose {
		fmt.Fprintln(w, msg)
	}
	log.Debug().Msg(msg)
}
