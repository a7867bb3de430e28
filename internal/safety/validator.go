package safety

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	ErrInvalidPath   = errors.New("invalid path")
	ErrProtectedPath = errors.New("protected path")
	ErrTraversal     = errors.New("path traversal detected")
)

// Validator enforces the safety contract for the wipe target.
// Secure deletion cannot be undone, so system-critical paths are refused
// outright before any overwrite starts.
type Validator struct {
	ProtectedPaths []string
}

// NewValidator creates a validator with the built-in protected set plus any
// operator-configured additions
func NewValidator(extraProtected []string) *Validator {
	return &Validator{
		ProtectedPaths: defaultProtected(extraProtected),
	}
}

// ValidateTarget is the single-source-of-truth for wipe authorization
// Returns typed error on safety violation
func (v *Validator) ValidateTarget(path string) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}

	if IsProtectedPath(p, v.ProtectedPaths) {
		return ErrProtectedPath
	}

	if DetectTraversal(path) {
		return ErrTraversal
	}

	return nil
}

// NormalizePath converts path to absolute, cleaned form
func NormalizePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrInvalidPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", ErrInvalidPath
	}
	return filepath.Clean(abs), nil
}

// DetectTraversal blocks any ".." segment in raw input
func DetectTraversal(raw string) bool {
	parts := strings.Split(filepath.ToSlash(raw), "/")
	for _, p := range parts {
		if p == ".." {
			return true
		}
	}
	return false
}

// IsProtectedPath checks if path is a protected path or inside one
func IsProtectedPath(path string, protected []string) bool {
	p := filepath.Clean(path)
	for _, root := range protected {
		if hasPathPrefix(p, root) {
			return true
		}
	}
	return false
}

func defaultProtected(extra []string) []string {
	protected := []string{
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
		"/var/lib/siler",
		"/var/log/siler",
	}
	for _, p := range extra {
		protected = append(protected, filepath.Clean(p))
	}
	return protected
}

func hasPathPrefix(path, root string) bool {
	root = filepath.Clean(root)
	if path == root {
		return true
	}
	// "/" protects only itself: wiping a subtree of the filesystem root is
	// legitimate, wiping the root is not.
	if root == string(filepath.Separator) {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
