package processor

import "fmt"

// ResourceError is a fatal failure to read inputs or to create, fill or
// clear the workspace and outputs.
type ResourceError struct {
	Op  string
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource error: %s: %v", e.Op, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// CompositingError is a fatal failure of a grid step such as a merge.
type CompositingError struct {
	Op  string
	Err error
}

func (e *CompositingError) Error() string {
	return fmt.Sprintf("compositing error: %s: %v", e.Op, e.Err)
}

func (e *CompositingError) Unwrap() error { return e.Err }

// DegenerateGeometryError reports a texture without any cell. It never
// aborts a run.
type DegenerateGeometryError struct {
	Texture string
	Err     error
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("texture %s contributes nothing: %v", e.Texture, e.Err)
}

func (e *DegenerateGeometryError) Unwrap() error { return e.Err }

// EnvironmentError reports that worker capacity could not be acquired. The
// run continues sequentially.
type EnvironmentError struct {
	Requested int
	Err       error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("environment error: %d workers: %v", e.Requested, e.Err)
}

func (e *EnvironmentError) Unwrap() error { return e.Err }
