package handler

import (
	"fmt"
	"os"
	"strconv"

	"github.com/tracelens/trace-lsp/src/tvd/internal/serverinfofile"
)

const _pidKey = "pid"

// Output the daemon's process id so that extensions can health check or
// terminate a stale daemon without a JSON-RPC round trip.
// Other connection methods (e.g. JSON-RPC) independently add their fields to the Server Info file.
func outputProcessInfo(infofile serverinfofile.ServerInfoFile) error {
	if err := infofile.UpdateField(_pidKey, strconv.Itoa(os.Getpid())); err != nil {
		return fmt.Errorf("outputting pid to info file: %w", err)
	}
	return nil
}
