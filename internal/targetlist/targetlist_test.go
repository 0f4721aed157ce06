package targetlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	a := solana.NewWallet().PublicKey().String()
	b := solana.NewWallet().PublicKey().String()
	other := solana.NewWallet().PublicKey().String()

	l, err := Load(writeList(t, a+"\n\n# a comment\n  "+b+"  \n"))
	require.NoError(t, err)
	assert.Equal(t, 2, l.Len())
	assert.True(t, l.Contains(a))
	assert.True(t, l.Contains(b))
	assert.False(t, l.Contains(other))
}

func TestLoadRejectsBadAddress(t *testing.T) {
	_, err := Load(writeList(t, "0IOl-not-base58\n"))
	assert.ErrorContains(t, err, "line 1")
}

func TestLoadRejectsWrongLength(t *testing.T) {
	// valid base58, but too short to be a public key
	_, err := Load(writeList(t, "abc\n"))
	assert.ErrorContains(t, err, "want 32")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.txt"))
	assert.Error(t, err)
}
