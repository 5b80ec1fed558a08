package cli

import (
	"fmt"

	"github.com/pkg/errors"

	errs "github.com/twitter/conduct/common/errors"
	"github.com/twitter/conduct/conductr/client"
	"github.com/twitter/conduct/shazar"
)

// BundleError is a bundle or configuration archive rejected before upload.
type BundleError struct {
	Path string
	Err  error
}

func (e *BundleError) Error() string {
	return fmt.Sprintf("Problem with the bundle: %v", e.Err)
}

func (e *BundleError) Unwrap() error { return e.Err }

// Exitable rewrites err into the message shown to the user, carrying the exit code for its kind.
func Exitable(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*errs.ExitCodeError); ok {
		return err
	}
	var (
		connErr   *client.ConnectionError
		statusErr *client.StatusError
		bundleErr *BundleError
		shazarErr *shazar.Error
	)
	switch {
	case errors.As(err, &connErr):
		return errs.NewError(fmt.Errorf("Unable to contact ConductR.\nReason: %v\nMake sure it can be accessed at %s.",
			connErr.Err, connErr.Addr), errs.ConnectionFailureExitCode)
	case errors.As(err, &statusErr):
		return errs.NewError(statusErr, errs.HTTPFailureExitCode)
	case errors.As(err, &bundleErr):
		return errs.NewError(bundleErr, errs.BundleFailureExitCode)
	case errors.As(err, &shazarErr):
		return errs.NewError(err, errs.PackageFailureExitCode)
	}
	return errs.NewError(err, errs.GenericFailureExitCode)
}
