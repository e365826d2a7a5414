package credentials

import (
	"context"
	"errors"

	"github.com/zalando/go-keyring"
)

const probeKey = "__probe__"

// VaultSource reads secrets from the OS secret store. Each key is stored as
// a keyring entry under the configured service name.
type VaultSource struct {
	Service string
}

// NewVaultSource creates a vault source for service
func NewVaultSource(service string) *VaultSource {
	return &VaultSource{Service: service}
}

func (v *VaultSource) Name() string { return "vault" }

// Available reports whether a secret store answers at all. A not-found
// answer still proves the store is reachable.
func (v *VaultSource) Available(ctx context.Context) bool {
	_, err := keyring.Get(v.Service, probeKey)
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// Lookup returns the secret stored for key. Vault-held keys always target
// the Gemini API backend.
func (v *VaultSource) Lookup(ctx context.Context, key string) (string, bool, error) {
	if key == KeyUseVertexAI {
		return "false", true, nil
	}
	val, err := keyring.Get(v.Service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
