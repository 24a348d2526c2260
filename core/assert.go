package f

import (
	"errors"

	"github.com/ztrue/tracerr"
)

// Check panics with a traced error when value is nil. Used for wiring
// mistakes (missing bundle, missing provider) that must not survive startup.
func Check(value any, err string) {
	if value == nil {
		panic(tracerr.Wrap(errors.New(err)))
	}
}

// CheckErr panics with a traced error when err is non-nil.
func CheckErr(err error) {
	if err != nil {
		panic(tracerr.Wrap(err))
	}
}
