package env

import "path/filepath"

// Environment is a provisioned venv on disk. The directory's existence is the
// provisioned signal; pyvenv.cfg plus the interpreter binary is the integrity
// signal.
type Environment struct {
	Path string
}

// BinDir returns the directory holding the environment's executables.
func (e *Environment) BinDir() string {
	return filepath.Join(e.Path, "bin")
}

// Python returns the path of the environment's interpreter.
func (e *Environment) Python() string {
	return filepath.Join(e.Path, "bin", "python")
}

// MarkerFile returns the path of the venv marker written by the venv module.
func (e *Environment) MarkerFile() string {
	return filepath.Join(e.Path, "pyvenv.cfg")
}

// ActivateScript returns the path of the shell activation script.
func (e *Environment) ActivateScript() string {
	return filepath.Join(e.Path, "bin", "activate")
}
