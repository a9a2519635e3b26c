package vault

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/nvoronin/golab/internal/log"
	"github.com/nvoronin/golab/internal/metrics"
)

var (
	// ErrNotFound is returned when no blob exists under the requested id.
	ErrNotFound = errors.New("vault: not found")
	// ErrDecrypt is returned when a stored blob fails authentication.
	ErrDecrypt = errors.New("vault: decryption failed")
	// ErrBadPassphrase is returned by Open when the passphrase does not
	// match the one the vault was created with.
	ErrBadPassphrase = errors.New("vault: wrong passphrase")
)

// Reserved keys. User blobs are stored under "blob:<id>".
var (
	saltKey   = []byte("!vault:salt")
	canaryKey = []byte("!vault:canary")
)

const blobPrefix = "blob:"

// canaryPlain is sealed on creation and opened on every Open to verify the
// passphrase before any user data is touched.
var canaryPlain = []byte("golab-vault-v1")

// Vault is an encrypted blob store backed by Badger.
type Vault struct {
	db   *badger.DB
	aead cipher.AEAD
}

// Open opens (or creates) the vault at path. An empty path opens an
// in-memory vault, which tests use.
func Open(path, passphrase string) (*Vault, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("vault: open store: %w", err)
	}

	v := &Vault{db: db}
	if err := v.init(passphrase); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger := log.WithComponent("vault")
	logger.Info().Str(log.FieldPath, path).Msg("vault opened")
	return v, nil
}

// init loads or creates the salt, derives the AEAD and checks the canary.
func (v *Vault) init(passphrase string) error {
	salt, created, err := v.loadOrCreateSalt()
	if err != nil {
		return err
	}

	key := deriveKey(passphrase, salt)
	defer zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return fmt.Errorf("vault: aead init: %w", err)
	}
	v.aead = aead

	if created {
		sealed, err := v.seal(canaryPlain)
		if err != nil {
			return err
		}
		return v.db.Update(func(txn *badger.Txn) error {
			return txn.Set(canaryKey, sealed)
		})
	}

	var sealed []byte
	err = v.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(canaryKey)
		if err != nil {
			return err
		}
		sealed, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("vault: read canary: %w", err)
	}
	if _, err := v.open(sealed); err != nil {
		return ErrBadPassphrase
	}
	return nil
}

func (v *Vault) loadOrCreateSalt() (salt []byte, created bool, err error) {
	err = v.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(saltKey)
		if err != nil {
			return err
		}
		salt, err = item.ValueCopy(nil)
		return err
	})
	if err == nil {
		return salt, false, nil
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, fmt.Errorf("vault: read salt: %w", err)
	}

	salt, err = newSalt()
	if err != nil {
		return nil, false, fmt.Errorf("vault: generate salt: %w", err)
	}
	err = v.db.Update(func(txn *badger.Txn) error {
		return txn.Set(saltKey, salt)
	})
	if err != nil {
		return nil, false, fmt.Errorf("vault: persist salt: %w", err)
	}
	return salt, true, nil
}

// seal encrypts plaintext as nonce||ciphertext.
func (v *Vault) seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("vault: nonce: %w", err)
	}
	return v.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// open decrypts a nonce||ciphertext blob.
func (v *Vault) open(sealed []byte) ([]byte, error) {
	if len(sealed) < chacha20poly1305.NonceSize {
		return nil, ErrDecrypt
	}
	nonce, ct := sealed[:chacha20poly1305.NonceSize], sealed[chacha20poly1305.NonceSize:]
	plain, err := v.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}

// Put seals plaintext and stores it under id.
func (v *Vault) Put(ctx context.Context, id string, plaintext []byte) (err error) {
	defer func() { metrics.VaultOp("put", err) }()

	if err = ctx.Err(); err != nil {
		return err
	}
	sealed, err := v.seal(plaintext)
	if err != nil {
		return err
	}
	err = v.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(blobPrefix+id), sealed)
	})
	if err != nil {
		return fmt.Errorf("vault: put %s: %w", id, err)
	}
	return nil
}

// Get loads and decrypts the blob stored under id.
func (v *Vault) Get(ctx context.Context, id string) (plain []byte, err error) {
	defer func() { metrics.VaultOp("get", err) }()

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	var sealed []byte
	err = v.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(blobPrefix + id))
		if err != nil {
			return err
		}
		sealed, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("vault: get %s: %w", id, err)
	}
	return v.open(sealed)
}

// Delete removes the blob stored under id. Absent ids are a no-op.
func (v *Vault) Delete(ctx context.Context, id string) (err error) {
	defer func() { metrics.VaultOp("delete", err) }()

	if err = ctx.Err(); err != nil {
		return err
	}
	err = v.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(blobPrefix + id))
	})
	if err != nil {
		return fmt.Errorf("vault: delete %s: %w", id, err)
	}
	return nil
}

// Verify re-opens the canary, proving the store is reachable and the key
// still authenticates. Health checks use it.
func (v *Vault) Verify() error {
	var sealed []byte
	err := v.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(canaryKey)
		if err != nil {
			return err
		}
		sealed, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("vault: read canary: %w", err)
	}
	if _, err := v.open(sealed); err != nil {
		return err
	}
	return nil
}

// Close releases the underlying store.
func (v *Vault) Close() error {
	return v.db.Close()
}
