package tokengenerator

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"passreset/internal/core/domain/resettoken"
)

const tokenByteCount = 32

// CryptoRand draws token identifiers from the operating system CSPRNG.
type CryptoRand struct{}

func NewCryptoRand() *CryptoRand {
	return &CryptoRand{}
}

func (g *CryptoRand) GenerateToken() (resettoken.Token, error) {
	buf := make([]byte, tokenByteCount)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not read random bytes: %w", err)
	}
	return resettoken.Token(hex.EncodeToString(buf)), nil
}
