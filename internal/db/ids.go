package db

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

const (
	designIDPrefix = "ds-"
	paramIDPrefix  = "pm-"
	actionIDPrefix = "al-"
)

func randomID(prefix string, n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return prefix + hex.EncodeToString(bytes), nil
}

// generateDesignID generates a unique design ID
func generateDesignID() (string, error) {
	return randomID(designIDPrefix, 3)
}

// generateParamID generates a unique parameter ID
func generateParamID() (string, error) {
	return randomID(paramIDPrefix, 4)
}

// generateActionID generates a unique action log row ID
func generateActionID() (string, error) {
	return randomID(actionIDPrefix, 6)
}

// newBatchID returns the ID shared by all actions of one undo group.
func newBatchID() string {
	return uuid.NewString()
}
