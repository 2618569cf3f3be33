package apierr

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/Goden-Gun/diary-client/pkg/envelope"
)

// failure is the decoded shape of a raw error. Exactly one variant is produced
// for every input.
type failure interface {
	failure()
}

type (
	alreadyClassified struct {
		err ClassifiedError
	}

	// networkFailure: the connection never completed.
	networkFailure struct {
		timeout bool
	}

	// httpFailure: a response arrived without a structured error body.
	httpFailure struct {
		status int
		header http.Header
		body   envelope.Body
	}

	// structuredFailure: a response arrived carrying the API error envelope.
	structuredFailure struct {
		status int
		header http.Header
		env    *envelope.Error
		body   envelope.Body
	}

	opaqueFailure struct{}
)

func (alreadyClassified) failure() {}
func (networkFailure) failure()    {}
func (httpFailure) failure()       {}
func (structuredFailure) failure() {}
func (opaqueFailure) failure()     {}

type timeouter interface {
	Timeout() bool
}

func decode(err error) failure {
	if err == nil {
		return opaqueFailure{}
	}

	var classifiedPtr *ClassifiedError
	if errors.As(err, &classifiedPtr) && classifiedPtr != nil {
		return alreadyClassified{err: *classifiedPtr}
	}
	var classified ClassifiedError
	if errors.As(err, &classified) {
		return alreadyClassified{err: classified}
	}

	var resp *ResponseError
	if errors.As(err, &resp) && resp != nil {
		body := envelope.Decode(resp.Body)
		if body.Envelope != nil {
			return structuredFailure{status: resp.StatusCode, header: resp.Header, env: body.Envelope, body: body}
		}
		return httpFailure{status: resp.StatusCode, header: resp.Header, body: body}
	}

	if isAborted(err) {
		return networkFailure{timeout: true}
	}

	var transport *TransportError
	if errors.As(err, &transport) {
		return networkFailure{}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return networkFailure{}
	}
	return opaqueFailure{}
}

// isAborted reports whether err describes an aborted or expired request.
func isAborted(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var t timeouter
	return errors.As(err, &t) && t.Timeout()
}
