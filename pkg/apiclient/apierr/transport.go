package apierr

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// Low-level transport causes. Adapters that can name the cause of a failed
// exchange should wrap one of these; the equivalent net and syscall errors
// are recognized as well.
var (
	ErrNotConnectedToInternet  = errors.New("not connected to the internet")
	ErrTimedOut                = errors.New("request timed out")
	ErrCannotFindHost          = errors.New("cannot find host")
	ErrCannotConnectToHost     = errors.New("cannot connect to host")
	ErrNetworkConnectionLost   = errors.New("network connection lost")
	ErrDataNotAllowed          = errors.New("data not allowed")
	ErrInternationalRoamingOff = errors.New("international roaming off")
)

var connectivityCauses = []error{
	ErrNotConnectedToInternet,
	ErrTimedOut,
	ErrCannotFindHost,
	ErrCannotConnectToHost,
	ErrNetworkConnectionLost,
	ErrDataNotAllowed,
	ErrInternationalRoamingOff,
}

// ClassifyTransport maps a failed exchange to a transport error. Known
// connectivity causes get the normalized MessageUnableToConnect; anything
// else keeps its own message. The cause is always kept unmodified.
func ClassifyTransport(err error) *Error {
	if err == nil {
		return nil
	}
	if IsConnectivity(err) {
		return &Error{Kind: KindTransport, Message: MessageUnableToConnect, Cause: err}
	}
	return TransportFailure(err)
}

// IsConnectivity reports whether err is one of the known connectivity
// causes.
func IsConnectivity(err error) bool {
	for _, cause := range connectivityCauses {
		if errors.Is(err, cause) {
			return true
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	switch {
	case errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, syscall.ENETDOWN),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, io.ErrUnexpectedEOF):
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
