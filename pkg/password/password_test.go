package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256VerifierDeterministic(t *testing.T) {
	v := NewSHA256Verifier()

	first, err := v.Hash("secret123")
	require.NoError(t, err)
	second, err := v.Hash("secret123")
	require.NoError(t, err)

	// Unsalted digest: same input, same output.
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestSHA256VerifierKnownDigest(t *testing.T) {
	v := NewSHA256Verifier()

	digest, err := v.Hash("abc")
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", digest)
}

func TestSHA256VerifierMatches(t *testing.T) {
	v := NewSHA256Verifier()
	digest, err := v.Hash("secret123")
	require.NoError(t, err)

	assert.True(t, v.Matches("secret123", digest))
	assert.False(t, v.Matches("secret124", digest))
	assert.False(t, v.Matches("secret123", ""))

	// Stored digest case does not matter.
	assert.True(t, v.Matches("secret123", strings.ToUpper(digest)))
}

func TestBcryptVerifierRoundTrip(t *testing.T) {
	v := NewBcryptVerifier()

	digest, err := v.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", digest)

	assert.True(t, v.Matches("secret123", digest))
	assert.False(t, v.Matches("wrong", digest))
}

func TestNewSelectsAlgorithm(t *testing.T) {
	assert.IsType(t, &SHA256Verifier{}, New("sha256"))
	assert.IsType(t, &SHA256Verifier{}, New(""))
	assert.IsType(t, &SHA256Verifier{}, New("something-else"))
	assert.IsType(t, &BcryptVerifier{}, New("bcrypt"))
	assert.IsType(t, &BcryptVerifier{}, New("BCRYPT"))
}
