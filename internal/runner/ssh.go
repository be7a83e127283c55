package runner

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SSHRunner executes commands on a remote host over SSH. It satisfies the same
// Runner contract as LocalRunner so the bootstrap pipeline can provision a
// remote development box from the same code path.
type SSHRunner struct {
	Host                        string
	Port                        string
	User                        string
	KeyPath                     string
	Passphrase                  []byte
	KnownHostsPath              string
	InsecureSkipHostKeyChecking bool
	Timeout                     time.Duration
}

func (r SSHRunner) Run(env []string, name string, args ...string) ([]byte, []byte, int, error) {
	client, err := r.dial()
	if err != nil {
		return nil, nil, -1, err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return nil, nil, -1, err
	}
	defer session.Close()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	err = session.Run(joinCommand(env, name, args))
	if err == nil {
		return stdout.Bytes(), stderr.Bytes(), 0, nil
	}

	// Only an ExitError means the command actually ran on the remote host.
	// Anything else is a transport failure and must not look like an exit.
	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), stderr.Bytes(), exitErr.ExitStatus(), err
	}
	return stdout.Bytes(), stderr.Bytes(), -1, err
}

func (r SSHRunner) PathExists(path string) (bool, error) {
	_, _, code, err := r.Run(nil, "test", "-e", path)
	switch code {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		if err == nil {
			err = fmt.Errorf("test -e %s: exit %d", path, code)
		}
		return false, err
	}
}

func (r SSHRunner) ReadFile(path string) ([]byte, error) {
	out, stderr, code, err := r.Run(nil, "cat", path)
	if code == 0 {
		return out, nil
	}
	if strings.Contains(string(stderr), "No such file") {
		return nil, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	if err == nil {
		err = fmt.Errorf("cat %s: exit %d", path, code)
	}
	return nil, err
}

func (r SSHRunner) LookPath(name string) (string, error) {
	out, _, code, err := r.Run(nil, "command", "-v", name)
	if code < 0 {
		return "", err
	}
	if code != 0 {
		return "", fmt.Errorf("%s not found on %s", name, r.Host)
	}
	return strings.TrimSpace(string(out)), nil
}

// AbsPath returns the path as given: relative remote paths resolve host-side
// against the directory the SSH server starts sessions in (the user's home).
func (r SSHRunner) AbsPath(path string) (string, error) {
	return path, nil
}

func (r SSHRunner) dial() (*ssh.Client, error) {
	address, err := r.address()
	if err != nil {
		return nil, err
	}

	config, err := r.clientConfig()
	if err != nil {
		return nil, err
	}

	if r.Timeout <= 0 {
		return ssh.Dial("tcp", address, config)
	}

	conn, err := net.DialTimeout("tcp", address, r.Timeout)
	if err != nil {
		return nil, err
	}

	clientConn, chans, reqs, err := ssh.NewClientConn(conn, address, config)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return ssh.NewClient(clientConn, chans, reqs), nil
}

func (r SSHRunner) address() (string, error) {
	host := strings.TrimSpace(r.Host)
	if host == "" {
		return "", fmt.Errorf("ssh host is required")
	}

	if r.Port != "" {
		return net.JoinHostPort(host, r.Port), nil
	}

	if _, _, err := net.SplitHostPort(host); err == nil {
		return host, nil
	}

	return net.JoinHostPort(host, "22"), nil
}

func (r SSHRunner) clientConfig() (*ssh.ClientConfig, error) {
	if r.User == "" {
		return nil, fmt.Errorf("ssh user is required")
	}

	signer, err := r.signer()
	if err != nil {
		return nil, err
	}

	var hostKeyCallback ssh.HostKeyCallback
	if r.InsecureSkipHostKeyChecking {
		hostKeyCallback = ssh.InsecureIgnoreHostKey()
	} else {
		callback, err := r.knownHostsCallback()
		if err != nil {
			return nil, err
		}
		hostKeyCallback = callback
	}

	return &ssh.ClientConfig{
		User:            r.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         r.Timeout,
	}, nil
}

func (r SSHRunner) signer() (ssh.Signer, error) {
	if r.KeyPath == "" {
		return nil, fmt.Errorf("ssh key path is required")
	}

	privateKey, err := os.ReadFile(r.KeyPath)
	if err != nil {
		return nil, err
	}

	if len(r.Passphrase) > 0 {
		return ssh.ParsePrivateKeyWithPassphrase(privateKey, r.Passphrase)
	}

	return ssh.ParsePrivateKey(privateKey)
}

func (r SSHRunner) knownHostsCallback() (ssh.HostKeyCallback, error) {
	path := strings.TrimSpace(r.KnownHostsPath)
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("known hosts path not set and home dir unavailable")
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}

	return knownhosts.New(path)
}
