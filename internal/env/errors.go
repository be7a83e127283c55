package env

import "errors"

var (
	// ErrProvision indicates environment creation failed.
	ErrProvision = errors.New("environment provisioning failed")

	// ErrToolchain indicates the Python interpreter is not available.
	ErrToolchain = errors.New("python toolchain not found")

	// ErrPermission indicates filesystem access was denied.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound indicates a required path does not exist.
	ErrNotFound = errors.New("path not found")

	// ErrCorruptEnvironment indicates the environment directory exists but is
	// missing its interpreter or venv marker.
	ErrCorruptEnvironment = errors.New("environment is corrupt")
)

// IsNotFound returns true if the error is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCorrupt returns true if the error is ErrCorruptEnvironment.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorruptEnvironment)
}
