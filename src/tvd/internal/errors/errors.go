package errors

import stderr "errors"

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(msg string) error {
	return stderr.New(msg)
}

var (
	// NoUUIDOnWireError reports that an inbound request carried no session UUID.
	NoUUIDOnWireError = New("UUID is required")
	// NoMessageOnWireError reports that an inbound request carried no message body.
	NoMessageOnWireError = New("no message on wire")
)

// IsBadRequest reports whether the error indicates a malformed inbound request.
func IsBadRequest(e error) bool {
	return stderr.Is(e, NoUUIDOnWireError) || stderr.Is(e, NoMessageOnWireError)
}
