// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"

	"github.com/pdiddy/one2xopp/pkg/types"
)

// FileError is a failure while converting one input, tagged with the stage
// that failed.
type FileError struct {
	Path  string
	Stage types.Stage
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *FileError) Unwrap() error {
	return e.Err
}

// StageOf returns the stage recorded in err, or "" when err carries none.
func StageOf(err error) types.Stage {
	var fe *FileError
	if errors.As(err, &fe) {
		return fe.Stage
	}
	return ""
}

func fileError(path string, stage types.Stage, err error) *FileError {
	return &FileError{Path: path, Stage: stage, Err: err}
}
