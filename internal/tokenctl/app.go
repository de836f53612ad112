// Package tokenctl is an operator tool for the envelopes carried in email
// links: it seals a token the way the server does, opens an envelope taken
// from a link, and generates new keys.
package tokenctl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/cloudygo/internal/common"
	"github.com/dmitrijs2005/cloudygo/internal/cryptox"
)

const usage = `usage: tokenctl <command> [value]

commands:
  encrypt [plaintext]   seal plaintext into an envelope
  decrypt [envelope]    open an envelope
  genkey                print a new random ENCRYPTION_KEY

The key is read from ENCRYPTION_KEY or prompted for without echo. A missing
value is read from standard input.`

// App holds the process environment the commands run against.
type App struct {
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	Getenv func(string) string
}

// Run executes args and returns the process exit code.
func (a *App) Run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.Err, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "encrypt":
		err = a.withKey(args[1:], cryptox.Encrypt)
	case "decrypt":
		err = a.withKey(args[1:], cryptox.Decrypt)
	case "genkey":
		err = a.genKey()
	case "help", "-h", "--help":
		fmt.Fprintln(a.Out, usage)
		return 0
	default:
		fmt.Fprintf(a.Err, "unknown command %q\n\n%s\n", args[0], usage)
		return 2
	}

	if err != nil {
		fmt.Fprintf(a.Err, "tokenctl: %v\n", err)
		return 1
	}
	return 0
}

func (a *App) withKey(args []string, op func(string, []byte) (string, error)) error {
	value, err := a.value(args)
	if err != nil {
		return err
	}

	key, err := a.key()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	out, err := op(value, key)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(a.Out, out)
	return err
}

func (a *App) value(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	v, err := readLine(bufio.NewReader(a.In))
	if err != nil {
		return "", fmt.Errorf("read value: %w", err)
	}
	if v == "" {
		return "", errors.New("empty value")
	}
	return v, nil
}

// key returns the raw 32-byte key.
func (a *App) key() ([]byte, error) {
	raw := strings.TrimSpace(a.Getenv("ENCRYPTION_KEY"))

	if raw == "" {
		typed, err := promptKey(a.Err)
		if err != nil {
			return nil, fmt.Errorf("read key: %w", err)
		}
		raw = strings.TrimSpace(string(typed))
		common.WipeByteArray(typed)
	}

	k, err := cryptox.ParseKey(raw)
	if err != nil {
		return nil, err
	}

	secret := k.SecretValue()
	out := make([]byte, len(secret))
	copy(out, secret)
	return out, nil
}

func (a *App) genKey() error {
	k, err := common.MakeRandHexString(cryptox.KeySize)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.Out, k)
	return err
}
