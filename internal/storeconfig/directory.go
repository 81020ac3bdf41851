package storeconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dogmatiq/ferrite"
)

// DefaultApplicationName is the name of the directory within the user's
// configuration directory that is used as the default base directory.
const DefaultApplicationName = "filejournal"

var baseDirectory = ferrite.
	String("FILEJOURNAL_BASE_DIR", "the directory in which journals and their metadata are stored").
	Optional(ferrite.WithRegistry(FerriteRegistry))

var subdirectory = ferrite.
	String("FILEJOURNAL_SUBDIR", "the name of a subdirectory of the base directory that contains the journal directory").
	WithConstraint(
		"must be a single path element",
		isPathElement,
	).
	Optional(ferrite.WithRegistry(FerriteRegistry))

func isPathElement(v string) bool {
	return v != "." &&
		v != ".." &&
		filepath.Base(v) == v
}

func (c *Config) finalizeDirectories() error {
	if c.BaseDirectory == "" && c.UseEnv {
		if dir, ok := baseDirectory.Value(); ok {
			c.BaseDirectory = dir
		}
	}

	if c.BaseDirectory == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("unable to determine default base directory: %w", err)
		}
		c.BaseDirectory = filepath.Join(dir, DefaultApplicationName)
	}

	if c.Subdirectory == "" && c.UseEnv {
		if dir, ok := subdirectory.Value(); ok {
			c.Subdirectory = dir
		}
	}

	if c.Subdirectory != "" && !isPathElement(c.Subdirectory) {
		return fmt.Errorf("subdirectory %q must be a single path element", c.Subdirectory)
	}

	return nil
}
