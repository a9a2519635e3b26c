package vault

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	v, err := Open("", "test-passphrase")
	require.NoError(t, err)
	t.Cleanup(func() { _ = v.Close() })
	return v
}

func TestPutGetRoundTrip(t *testing.T) {
	v := newTestVault(t)

	plain := []byte("attack at dawn")
	require.NoError(t, v.Put(context.Background(), "msg", plain))

	got, err := v.Get(context.Background(), "msg")
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestGetMissing(t *testing.T) {
	v := newTestVault(t)
	_, err := v.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	v := newTestVault(t)

	require.NoError(t, v.Put(context.Background(), "k", []byte("v")))
	require.NoError(t, v.Delete(context.Background(), "k"))
	require.NoError(t, v.Delete(context.Background(), "k"), "absent delete is a no-op")

	_, err := v.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCiphertextDiffersFromPlaintext(t *testing.T) {
	v := newTestVault(t)

	plain := []byte("super secret")
	sealed, err := v.seal(plain)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(sealed, plain), "sealed blob must not embed plaintext")

	// Two seals of the same plaintext use fresh nonces.
	sealed2, err := v.seal(plain)
	require.NoError(t, err)
	assert.NotEqual(t, sealed, sealed2)
}

func TestWrongPassphraseRejectedOnOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vault")

	v, err := Open(path, "correct horse")
	require.NoError(t, err)
	require.NoError(t, v.Put(context.Background(), "k", []byte("v")))
	require.NoError(t, v.Close())

	_, err = Open(path, "battery staple")
	assert.True(t, errors.Is(err, ErrBadPassphrase), "got %v", err)
}

func TestSaltStableAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vault")

	v, err := Open(path, "pass")
	require.NoError(t, err)
	require.NoError(t, v.Put(context.Background(), "k", []byte("persisted")))
	require.NoError(t, v.Close())

	v2, err := Open(path, "pass")
	require.NoError(t, err)
	defer func() { _ = v2.Close() }()

	got, err := v2.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), got)
}

func TestTamperedBlobFailsAuthentication(t *testing.T) {
	v := newTestVault(t)

	sealed, err := v.seal([]byte("data"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff

	_, err = v.open(sealed)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestCancelledContextRejected(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.Put(context.Background(), "k", []byte("v")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, v.Put(ctx, "k2", []byte("v")), context.Canceled)
	_, err := v.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, v.Delete(ctx, "k"), context.Canceled)

	// the stored blob is untouched
	got, err := v.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestHash(t *testing.T) {
	// sha256("Hello, World!")
	assert.Equal(t,
		"dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f",
		Hash([]byte("Hello, World!")))
}
