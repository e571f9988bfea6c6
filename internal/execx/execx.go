// Package execx は git などの外部コマンド実行を差し替え可能にします。
package execx

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/go-faster/errors"
)

// Runner は外部コマンドを 1 回実行し、標準出力と標準エラーを返します。
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)
}

// RunnerFunc はテスト用のフェイクを Runner として扱うためのアダプタです。
type RunnerFunc func(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error)

func (f RunnerFunc) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	return f(ctx, dir, name, args...)
}

// System は os/exec で実際にプロセスを起動します。
type System struct{}

func (System) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Error は失敗したコマンドの名前と標準エラーの先頭行を保持します。
type Error struct {
	Name   string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Stderr == "" {
		return e.Name + ": " + e.Err.Error()
	}
	return e.Name + ": " + e.Stderr + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound はコマンド自体が見つからなかったかを返します。
func (e *Error) NotFound() bool {
	var execErr *exec.Error
	return errors.As(e.Err, &execErr)
}

// Output はコマンドを実行して標準出力を返します。r が nil なら System を使い、
// 失敗時は *Error を返します。
func Output(ctx context.Context, r Runner, dir, name string, args ...string) ([]byte, error) {
	if r == nil {
		r = System{}
	}
	stdout, stderr, err := r.Run(ctx, dir, name, args...)
	if err != nil {
		first, _, _ := strings.Cut(strings.TrimSpace(string(stderr)), "\n")
		return stdout, &Error{Name: name, Stderr: strings.TrimSpace(first), Err: err}
	}
	return stdout, nil
}

// Line はコマンドを実行し、前後の空白を除いた標準出力を返します。
// 出力が空のときもエラーです。
func Line(ctx context.Context, r Runner, dir, name string, args ...string) (string, error) {
	out, err := Output(ctx, r, dir, name, args...)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(out))
	if line == "" {
		return "", errors.Errorf("%s %s: empty output", name, strings.Join(args, " "))
	}
	return line, nil
}
