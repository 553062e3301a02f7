package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"

	"studytracker/internal/constants"
)

// GenerateInviteCode generates a random invitation code in the format XXXX-XXXX-XXXX
func GenerateInviteCode() (string, error) {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	hex := hex.EncodeToString(bytes)
	// Format: XXXX-XXXX-XXXX
	return fmt.Sprintf("%s-%s-%s",
		hex[0:4],
		hex[4:8],
		hex[8:12],
	), nil
}

// GenerateResetCode generates a numeric password-reset code.
func GenerateResetCode() (string, error) {
	code := ""
	for i := 0; i < constants.ResetCodeLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		code += n.String()
	}
	return code, nil
}
