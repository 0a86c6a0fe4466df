// Package safety validates the folder a reorganization pass is allowed to
// run against. Organizing rewrites and deletes files under the chosen
// root, so system directories and the home directory itself are refused
// up front, before any file is touched.
package safety

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RootValidator decides whether a directory may be used as a scan root.
type RootValidator struct {
	protected []string
	home      string
}

// NewRootValidator creates a validator with the default protected set.
func NewRootValidator() *RootValidator {
	home, _ := os.UserHomeDir()
	return &RootValidator{
		protected: []string{
			// Unix system directories
			"/",
			"/bin",
			"/boot",
			"/dev",
			"/etc",
			"/lib",
			"/lib64",
			"/proc",
			"/root",
			"/sbin",
			"/sys",
			"/usr",
			"/var",
			// macOS system directories
			"/System",
			"/Applications",
			"/Library",
		},
		home: home,
	}
}

// AddProtected adds a custom protected directory.
func (v *RootValidator) AddProtected(path string) {
	v.protected = append(v.protected, filepath.Clean(path))
}

// ValidateRoot reports whether path is acceptable as the root of an
// organize pass. The path must be absolute and clean, must resolve
// outside every protected directory, and must not be the home directory
// itself: organizing $HOME wholesale would sweep dotfiles and application
// state into category folders.
func (v *RootValidator) ValidateRoot(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("folder must be an absolute path: %s", path)
	}
	if filepath.Clean(path) != path {
		return fmt.Errorf("folder path contains redundant elements: %s", path)
	}

	// Resolve symlinks so a link into /etc is caught as /etc.
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		if os.IsNotExist(err) {
			resolved = path
		} else {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
	}
	resolved = filepath.Clean(resolved)

	for _, protected := range v.protected {
		if resolved == protected {
			return fmt.Errorf("refusing to organize system folder: %s", resolved)
		}
		// One level under a system directory is still system territory;
		// deeper paths like /usr/local/share/books are allowed.
		if strings.HasPrefix(resolved, protected+"/") && protected != "/" {
			rel, _ := filepath.Rel(protected, resolved)
			if !strings.Contains(rel, string(filepath.Separator)) {
				return fmt.Errorf("refusing to organize system folder: %s", resolved)
			}
		}
	}

	if v.home != "" && resolved == filepath.Clean(v.home) {
		return fmt.Errorf("refusing to organize the home folder itself; pick a subfolder like %s",
			filepath.Join(v.home, "Downloads"))
	}

	return nil
}

// IsProtected reports whether path falls anywhere inside the protected
// set, without the depth allowance ValidateRoot grants.
func (v *RootValidator) IsProtected(path string) bool {
	clean := filepath.Clean(path)
	for _, protected := range v.protected {
		if protected == "/" {
			continue
		}
		if clean == protected || strings.HasPrefix(clean, protected+"/") {
			return true
		}
	}
	return clean == "/"
}
