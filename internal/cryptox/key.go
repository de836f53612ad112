package cryptox

import (
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/dmitrijs2005/cloudygo/internal/common"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// SecretMarker replaces key material whenever a Key is printed or logged.
const SecretMarker = "<!SECRET_REDACTED!>"

// Key is a 256-bit symmetric key that never prints its value.
type Key struct {
	value []byte
}

// ParseKey decodes a key given as exactly 64 hex characters.
// Anything else is a configuration error.
func ParseKey(raw string) (Key, error) {
	if len(raw) != KeySize*2 {
		return Key{}, fmt.Errorf("%w: encryption key must be %d hex characters", common.ErrConfiguration, KeySize*2)
	}

	k := make([]byte, KeySize)
	if _, err := hex.Decode(k, []byte(raw)); err != nil {
		return Key{}, fmt.Errorf("%w: encryption key is not valid hex", common.ErrConfiguration)
	}

	return Key{value: k}, nil
}

func (k Key) Format(f fmt.State, verb rune) {
	_, _ = f.Write([]byte(SecretMarker))
}

func (k Key) MarshalText() ([]byte, error) {
	return []byte(SecretMarker), nil
}

func (k Key) LogValue() slog.Value {
	return slog.StringValue(SecretMarker)
}

// SecretValue exposes the raw key bytes for handing to cipher constructors.
func (k Key) SecretValue() []byte {
	return k.value
}
