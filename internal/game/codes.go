package game

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/playperu/globetrotter/internal/database"
)

// codeBytes gives 72 bits of entropy, encoded as 12 URL-safe characters.
const codeBytes = 9

const codeAttempts = 3

func newCode() (string, error) {
	b := make([]byte, codeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// withUniqueCode calls insert with fresh codes until one is not already
// taken, giving up after codeAttempts collisions.
func withUniqueCode(insert func(code string) error) error {
	var err error
	for range codeAttempts {
		code, genErr := newCode()
		if genErr != nil {
			return genErr
		}
		err = insert(code)
		if !database.IsUniqueViolation(err) {
			return err
		}
	}
	return fmt.Errorf("allocating unique code after %d attempts: %w", codeAttempts, err)
}
