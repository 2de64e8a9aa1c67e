// Package race runs the two daily phases: the morning capture of every
// tracked list and the evening diff that ranks lists and posts the results.
package race

import "errors"

// ErrNotCaptured is returned by EndOfDay when today has no start-of-day snapshot.
var ErrNotCaptured = errors.New("no start-of-day snapshot for today")
