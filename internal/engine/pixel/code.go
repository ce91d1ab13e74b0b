package pixel

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	codeChars  = "abcdefghijklmnopqrstuvwxyz0123456789"
	codeLength = 10
)

// CodeAvailabilityChecker reports whether a pixel id is already taken.
// *repositories.PixelRepository satisfies it.
type CodeAvailabilityChecker interface {
	ExistsByID(id string) (bool, error)
}

// GenerateCode returns a fresh pixel id, retrying on the (unlikely)
// collision and widening the code once if collisions persist.
func GenerateCode(checker CodeAvailabilityChecker) (string, error) {
	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		code := randomCode(codeLength)

		exists, err := checker.ExistsByID(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	code := randomCode(codeLength + 2)
	exists, err := checker.ExistsByID(code)
	if err != nil {
		return "", err
	}
	if exists {
		return "", errors.New("failed to generate unique pixel id")
	}
	return code, nil
}

func randomCode(length int) string {
	b := make([]byte, length)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			b[i] = codeChars[i%len(codeChars)]
			continue
		}
		b[i] = codeChars[n.Int64()]
	}
	return string(b)
}
