package usersvc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The hash must never appear in any serialized form of a user.
func TestUserJSONOmitsPasswordHash(t *testing.T) {
	data, err := json.Marshal(User{ID: 1, Name: "John", Email: "john@doe.com", PasswordHash: "secret-hash", Active: true})
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.NotContains(t, string(data), "secret-hash")
	for key := range fields {
		assert.NotContains(t, key, "assword")
		assert.NotContains(t, key, "ash")
	}
}
