package db

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ResolveAddr returns the connection string, preferring plain over the
// base64-encoded form. Both empty yields "".
func ResolveAddr(plain, encoded string) (string, error) {
	if addr := strings.TrimSpace(plain); addr != "" {
		return addr, nil
	}
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return "", nil
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.New("DB_ADDR_BASE64 is not valid base64")
	}
	return strings.TrimSpace(string(decoded)), nil
}
