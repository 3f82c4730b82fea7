package metadata

import "errors"

var (
	ErrCatalogNotConfigured   = errors.New("catalog not configured")
	ErrSecondaryNotConfigured = errors.New("secondary catalog not configured")
	ErrInvalidArgument        = errors.New("invalid argument")
)

// UpstreamError is the failure of one remote call. The search chain logs it
// and treats the call as having returned nothing.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Op: op, Err: err}
}
