package certificate

import "errors"

// Error kinds for a generation run. Callers wrap them with fmt.Errorf("%w: ...")
// and match with errors.Is. Every kind is fatal to the run.
var (
	// ErrData marks bad input: a missing column, an unparseable date, or no
	// qualifying rows after filtering.
	ErrData = errors.New("data error")
	// ErrResource marks a missing or corrupt font.
	ErrResource = errors.New("resource error")
	// ErrTemplate marks a missing or invalid template document, or a target
	// page outside of it.
	ErrTemplate = errors.New("template error")
	// ErrIO marks a failure writing, reading or deleting a transient file.
	ErrIO = errors.New("io error")
)
