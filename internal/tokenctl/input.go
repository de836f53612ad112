package tokenctl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// stdinFd is a test seam for the terminal the key is read from.
var stdinFd = func() int { return int(os.Stdin.Fd()) }

// readLine reads one line, trimming the newline. A final line without a
// newline is returned as is.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptKey asks for the encryption key without echo. The caller wipes the
// returned slice.
func promptKey(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Encryption key (64 hex chars): "); err != nil {
		return nil, err
	}
	key, err := readPassword(stdinFd())
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return key, nil
}
