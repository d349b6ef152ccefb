package session

import (
	"crypto/rand"
	"io"
	"math/big"
)

const (
	defaultIDLength = 6
	idAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var randReader io.Reader = rand.Reader

// GenerateID returns a random id of uppercase letters and digits.
func GenerateID(size int) (string, error) {
	if size <= 0 {
		size = defaultIDLength
	}
	limit := big.NewInt(int64(len(idAlphabet)))
	out := make([]byte, size)
	for i := range out {
		n, err := rand.Int(randReader, limit)
		if err != nil {
			return "", err
		}
		out[i] = idAlphabet[n.Int64()]
	}
	return string(out), nil
}
