package cache

import (
	"errors"
	"fmt"
)

// LoadErrorKind classifies why a persistence file could not be loaded.
type LoadErrorKind int

const (
	// LoadNotFound means there is no persistence file yet.
	LoadNotFound LoadErrorKind = iota
	// LoadCorrupt means the file exists but is unreadable or not valid JSON.
	LoadCorrupt
	// LoadSchema means the JSON does not match the expected layout.
	LoadSchema
)

func (k LoadErrorKind) String() string {
	switch k {
	case LoadNotFound:
		return "not_found"
	case LoadCorrupt:
		return "corrupt"
	case LoadSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// LoadError is returned by Store.Load.
type LoadError struct {
	Kind LoadErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load cache %s (%s): %v", e.Path, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a LoadError for a missing file.
func IsNotFound(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Kind == LoadNotFound
}
