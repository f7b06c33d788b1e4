package credstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/klyve/vodctl/internal/ports"
)

// ErrPassUnavailable reports that pass(1) is not installed.
var ErrPassUnavailable = errors.New("pass command unavailable")

type passRunner func(ctx context.Context, stdin string, args ...string) (stdout string, stderr string, err error)

// PassStore shells out to pass(1). Every key is namespaced under prefix so
// vodctl entries stay grouped in the user's password store.
type PassStore struct {
	prefix string
	run    passRunner
}

var _ ports.SecretStore = (*PassStore)(nil)

func NewPassStore(prefix string) *PassStore {
	return &PassStore{prefix: strings.Trim(prefix, "/"), run: execPass}
}

func (s *PassStore) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := s.run(ctx, value+"\n", "insert", "-m", "-f", s.entry(key))
	if err != nil {
		return passError("put", s.entry(key), err, stderr)
	}
	return nil
}

func (s *PassStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := s.run(ctx, "", "show", s.entry(key))
	if err != nil {
		return "", passError("get", s.entry(key), err, stderr)
	}

	stdout = strings.TrimSuffix(stdout, "\n")
	stdout = strings.TrimSuffix(stdout, "\r")
	return stdout, nil
}

func (s *PassStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := s.run(ctx, "", "rm", "-f", s.entry(key))
	if err != nil {
		return passError("delete", s.entry(key), err, stderr)
	}
	return nil
}

func (s *PassStore) entry(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func execPass(ctx context.Context, stdin string, args ...string) (string, string, error) {
	path, err := exec.LookPath("pass")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrPassUnavailable
		}
		return "", "", fmt.Errorf("locate pass command: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func passError(op string, entry string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("pass %s %q: %w", op, entry, err)
	}
	return fmt.Errorf("pass %s %q: %w: %s", op, entry, err, stderr)
}
