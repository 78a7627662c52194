package validate

import (
	"fmt"
	"path/filepath"

	"github.com/gruppe-adler/bathyfuse/internal/dem"
	"github.com/gruppe-adler/bathyfuse/internal/utils"
)

// Inputs validates that all given grids exist and have a supported format
func Inputs(paths ...string) error {
	for _, p := range paths {
		if _, err := dem.FormatOf(p); err != nil {
			return err
		}

		if !utils.IsFile(p) {
			return fmt.Errorf("%w: %s does not exists or is no file", dem.ErrIO, p)
		}
	}

	return nil
}

// Output validates that a grid can be written to given path
func Output(p string) error {
	if _, err := dem.FormatOf(p); err != nil {
		return err
	}

	// check output directory
	dir := filepath.Dir(p)
	if !utils.IsDirectory(dir) {
		return fmt.Errorf("%w: output directory %s does not exists", dem.ErrIO, dir)
	}

	if utils.IsDirectory(p) {
		return fmt.Errorf("%w: %s is a directory", dem.ErrIO, p)
	}

	return nil
}

// OutputDirectory validates that p is an existing directory
func OutputDirectory(p string) error {
	if !utils.IsDirectory(p) {
		return fmt.Errorf("%w: output directory %s does not exists", dem.ErrIO, p)
	}

	return nil
}
