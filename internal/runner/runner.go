package runner

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Runner abstracts command execution so the bootstrap steps can target the
// local host or a remote one without caring which.
type Runner interface {
	// Run executes a command with extra KEY=VALUE environment entries layered
	// over the inherited environment. Stdout and stderr are captured
	// separately; the exit code is reported even when err is non-nil. A
	// negative exit code means the command never ran (transport failure),
	// as opposed to running and exiting non-zero.
	Run(env []string, name string, args ...string) ([]byte, []byte, int, error)

	// AbsPath resolves a path against the target host's working directory.
	AbsPath(path string) (string, error)

	// LookPath reports the resolved path of an executable, or an error when
	// it is not available on the target host.
	LookPath(name string) (string, error)

	// PathExists reports whether a path exists on the target host.
	PathExists(path string) (bool, error)

	// ReadFile reads a file from the target host. A missing file is reported
	// with an error satisfying errors.Is(err, fs.ErrNotExist).
	ReadFile(path string) ([]byte, error)
}

// LocalRunner executes commands on the local host.
type LocalRunner struct{}

func (LocalRunner) Run(env []string, name string, args ...string) ([]byte, []byte, int, error) {
	cmd := exec.Command(name, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), stderr.Bytes(), 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), stderr.Bytes(), exitErr.ExitCode(), err
	}

	exitCode := 1
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		exitCode = 127
	}
	return stdout.Bytes(), stderr.Bytes(), exitCode, err
}

func (LocalRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (LocalRunner) PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (LocalRunner) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (LocalRunner) AbsPath(path string) (string, error) {
	return filepath.Abs(path)
}

// CauseLine condenses a failed command's stderr into a single cause string,
// preferring the last non-empty line.
func CauseLine(stderr []byte, err error) string {
	lines := strings.Split(strings.TrimSpace(string(stderr)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	if err != nil {
		return err.Error()
	}
	return "exited non-zero"
}

func joinCommand(env []string, cmd string, args []string) string {
	var builder strings.Builder
	if len(env) > 0 {
		builder.WriteString("env")
		for _, kv := range env {
			builder.WriteByte(' ')
			builder.WriteString(shellEscape(kv))
		}
		builder.WriteByte(' ')
	}
	builder.WriteString(shellEscape(cmd))
	for _, arg := range args {
		builder.WriteByte(' ')
		builder.WriteString(shellEscape(arg))
	}
	return builder.String()
}

func shellEscape(value string) string {
	if value == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}
