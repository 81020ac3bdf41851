// Package dirprovision provides implementations of
// [journal.DirectoryProvisioner].
package dirprovision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dogmatiq/filejournal/journal"
)

// Base is a [journal.DirectoryProvisioner] that allocates directories within a
// base directory.
type Base struct {
	// Path is the path to the base directory. It is created if it does not
	// already exist.
	Path string
}

var _ journal.DirectoryProvisioner = (*Base)(nil)

// UserConfig returns a [Base] rooted at a directory named app within the
// current user's configuration directory.
func UserConfig(app string) (*Base, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}

	return &Base{
		Path: filepath.Join(dir, app),
	}, nil
}

// Directory returns the path of the directory with the given name, creating it
// if necessary.
//
// name must be a single path element.
func (b *Base) Directory(ctx context.Context, name string) (string, error) {
	if name == "" ||
		name == "." ||
		name == ".." ||
		strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%q is not a valid directory name", name)
	}

	if b.Path == "" {
		return "", fmt.Errorf("base directory is not configured")
	}

	dir := filepath.Join(b.Path, name)

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}

	return dir, ctx.Err()
}
