package accounts

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/chainlaunch/rolluplaunch/pkg/logger"
)

func TestProvisionDefaultRoles(t *testing.T) {
	p := NewProvisioner(logger.NewDefault())

	accounts, err := p.Provision(DefaultRoles)
	if err != nil {
		t.Fatalf("Provision failed: %v", err)
	}
	if len(accounts) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(accounts))
	}

	// Roles come back in provisioning order
	wantRoles := []Role{RoleValidator, RoleValidator, RoleBatchPoster}
	for i, acc := range accounts {
		if acc.Role != wantRoles[i] {
			t.Errorf("account %d: expected role %s, got %s", i, wantRoles[i], acc.Role)
		}
	}

	// Addresses are pairwise distinct
	seen := map[string]bool{}
	for _, acc := range accounts {
		if seen[acc.Address.Hex()] {
			t.Errorf("duplicate address %s", acc.Address.Hex())
		}
		seen[acc.Address.Hex()] = true
	}

	// Each private key derives its own address
	for _, acc := range accounts {
		key, err := crypto.HexToECDSA(acc.PrivateKey)
		if err != nil {
			t.Fatalf("invalid private key for %s: %v", acc.Role, err)
		}
		if crypto.PubkeyToAddress(key.PublicKey) != acc.Address {
			t.Errorf("address does not match private key for %s", acc.Role)
		}
	}
}

func TestValidatorsAndBatchPoster(t *testing.T) {
	p := NewProvisioner(logger.NewDefault())

	accounts, err := p.Provision(DefaultRoles)
	if err != nil {
		t.Fatalf("Provision failed: %v", err)
	}

	validators := Validators(accounts)
	if len(validators) != 2 {
		t.Fatalf("expected 2 validators, got %d", len(validators))
	}
	if validators[0] != accounts[0].Address || validators[1] != accounts[1].Address {
		t.Error("validator addresses out of provisioning order")
	}

	poster, err := BatchPoster(accounts)
	if err != nil {
		t.Fatalf("BatchPoster failed: %v", err)
	}
	if poster.Address != accounts[2].Address {
		t.Error("wrong batch poster account")
	}
}

func TestBatchPosterMissing(t *testing.T) {
	p := NewProvisioner(logger.NewDefault())

	accounts, err := p.Provision([]Role{RoleValidator})
	if err != nil {
		t.Fatalf("Provision failed: %v", err)
	}
	if _, err := BatchPoster(accounts); err == nil {
		t.Error("expected error when no batch poster was provisioned")
	}
}
