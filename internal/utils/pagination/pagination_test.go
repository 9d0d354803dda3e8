package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeCursorToken(t *testing.T) {
	createdAt := time.Date(2026, 5, 15, 14, 30, 45, 123456789, time.UTC)
	id := "b7c3f1d2-1a2b-4c5d-8e9f-001122334455"

	token := EncodeCursorToken(createdAt, id)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedCreatedAt, decodedID, err := DecodeCursorToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, createdAt, decodedCreatedAt, "Created at time should match after decode")
	assert.Equal(t, id, decodedID, "Entity ID should match after decode")
}

func TestDecodeCursorTokenError(t *testing.T) {
	// Invalid base64
	_, _, err := DecodeCursorToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Missing separator
	_, _, err = DecodeCursorToken("MjAyMy0wNS0xNVQwMDowMDowMFo=")
	assert.Error(t, err, "Should return an error for token without separator")

	// Bad timestamp
	_, _, err = DecodeCursorToken("bm90LWEtZGF0ZXxzb21lLWlk")
	assert.Error(t, err, "Should return an error for unparseable timestamp")
}
