package crypt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/souqhup/pkg/crypt"
)

func TestSealOpenJSON(t *testing.T) {
	box, err := crypt.New("app-key")
	require.NoError(t, err)

	in := map[string]string{"name": "SOUQHUP ADMIN"}
	sealed, err := box.SealJSON(in)
	require.NoError(t, err)
	assert.NotContains(t, sealed, "SOUQHUP")

	var out map[string]string
	require.NoError(t, box.OpenJSON(sealed, &out))
	assert.Equal(t, in, out)
}

func TestOpenWithWrongKey(t *testing.T) {
	a, _ := crypt.New("a")
	b, _ := crypt.New("b")

	sealed, err := a.Seal([]byte("secret"))
	require.NoError(t, err)

	_, err = b.Open(sealed)
	assert.ErrorIs(t, err, crypt.ErrDecrypt)

	_, err = a.Open("not base64 !!")
	assert.ErrorIs(t, err, crypt.ErrDecrypt)
}

func TestEmptySecret(t *testing.T) {
	_, err := crypt.New("")
	assert.Error(t, err)
}
