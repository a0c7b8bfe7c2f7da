// Package ssh runs commands and scripts on the deployment server over a
// secure shell session. Authentication uses the configured private key when
// the key file exists, otherwise an interactive password prompt.
package ssh

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"

	"slipway/pkg/config"
)

// PasswordFunc supplies a password when key authentication is unavailable.
type PasswordFunc func() (string, error)

type Executor struct {
	Host     string
	Port     string
	Username string
	KeyPath  string

	// Password is consulted when KeyPath does not resolve to a readable
	// private key. Left nil, a missing key is a connection error.
	Password PasswordFunc

	client *ssh.Client
}

func NewExecutor(host, username, keyPath string) *Executor {
	return &Executor{
		Host:     host,
		Port:     config.DefaultSSHPort,
		Username: username,
		KeyPath:  keyPath,
	}
}

// Connect opens the SSH session, preferring key auth and falling back to the
// password prompt when the key file is absent.
func (e *Executor) Connect() error {
	auth, err := e.authMethod()
	if err != nil {
		return err
	}

	cfg := &ssh.ClientConfig{
		User:            e.Username,
		Auth:            []ssh.AuthMethod{auth},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         config.DefaultSSHTimeout,
	}

	addr := fmt.Sprintf("%s:%s", e.Host, e.Port)
	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	e.client = client
	return nil
}

func (e *Executor) authMethod() (ssh.AuthMethod, error) {
	keyPath := ExpandPath(e.KeyPath)

	keyBytes, err := os.ReadFile(keyPath)
	if err == nil {
		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse SSH key %s: %w", keyPath, err)
		}
		return ssh.PublicKeys(signer), nil
	}

	if e.Password == nil {
		return nil, fmt.Errorf("failed to read SSH key %s: %w", keyPath, err)
	}

	password, err := e.Password()
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return ssh.Password(password), nil
}

func (e *Executor) Disconnect() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// CommandResult carries the outcome of one remote invocation.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Error    error
}

// Failed reports whether the invocation either errored or exited non-zero.
func (r *CommandResult) Failed() bool {
	return r.Error != nil || r.ExitCode != 0
}

func (e *Executor) Execute(command string) *CommandResult {
	return e.run(command, nil, nil, nil)
}

// ExecuteScript streams script content to the remote shell, mirroring output
// to the given writers as it arrives.
func (e *Executor) ExecuteScript(script string, stdout, stderr io.Writer) *CommandResult {
	return e.run("bash -s", strings.NewReader(script), stdout, stderr)
}

func (e *Executor) run(command string, stdin io.Reader, stdoutWriter, stderrWriter io.Writer) *CommandResult {
	if e.client == nil {
		return &CommandResult{Error: fmt.Errorf("not connected")}
	}

	session, err := e.client.NewSession()
	if err != nil {
		return &CommandResult{Error: fmt.Errorf("failed to create session: %w", err)}
	}
	defer session.Close()

	var stdoutBuf, stderrBuf bytes.Buffer
	session.Stdout = &stdoutBuf
	session.Stderr = &stderrBuf
	if stdoutWriter != nil {
		session.Stdout = io.MultiWriter(&stdoutBuf, stdoutWriter)
	}
	if stderrWriter != nil {
		session.Stderr = io.MultiWriter(&stderrBuf, stderrWriter)
	}
	if stdin != nil {
		session.Stdin = stdin
	}

	err = session.Run(command)

	result := &CommandResult{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}
	if err != nil {
		if exitErr, ok := err.(*ssh.ExitError); ok {
			result.ExitCode = exitErr.ExitStatus()
		} else {
			result.Error = err
		}
	}

	return result
}

// ExpandPath resolves a leading ~/ against the user's home directory.
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
