package accounts

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/chainlaunch/rolluplaunch/pkg/logger"
)

// Role identifies what a provisioned operator account is used for.
type Role string

const (
	RoleValidator   Role = "VALIDATOR"
	RoleBatchPoster Role = "BATCH_POSTER"
)

// DefaultRoles is the operator set a rollup deployment needs: two
// validators and one batch poster, in this order.
var DefaultRoles = []Role{RoleValidator, RoleValidator, RoleBatchPoster}

// NodeAccount is a freshly generated operator keypair.
type NodeAccount struct {
	Role       Role
	PrivateKey string // hex, no 0x prefix
	Address    common.Address
}

// Provisioner generates operator keypairs for the required roles.
type Provisioner struct {
	logger *logger.Logger
}

func NewProvisioner(logger *logger.Logger) *Provisioner {
	return &Provisioner{
		logger: logger.With("component", "account_provisioner"),
	}
}

// Provision generates one account per role, in order. Every key comes from
// crypto/rand via go-ethereum's secp256k1 key generation; a generation
// failure aborts before any on-chain action.
func (p *Provisioner) Provision(roles []Role) ([]NodeAccount, error) {
	accounts := make([]NodeAccount, 0, len(roles))
	seen := make(map[common.Address]struct{}, len(roles))

	for i, role := range roles {
		privateKey, err := crypto.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate secp256k1 key for %s: %w", role, err)
		}

		address := crypto.PubkeyToAddress(privateKey.PublicKey)
		if _, dup := seen[address]; dup {
			return nil, fmt.Errorf("duplicate address generated for account %d", i)
		}
		seen[address] = struct{}{}

		accounts = append(accounts, NodeAccount{
			Role:       role,
			PrivateKey: hex.EncodeToString(crypto.FromECDSA(privateKey)),
			Address:    address,
		})
		p.logger.Info("Provisioned operator account", "role", role, "address", address.Hex())
	}

	return accounts, nil
}

// Validators returns the addresses of all validator accounts, in
// provisioning order.
func Validators(accounts []NodeAccount) []common.Address {
	var out []common.Address
	for _, a := range accounts {
		if a.Role == RoleValidator {
			out = append(out, a.Address)
		}
	}
	return out
}

// BatchPoster returns the batch poster account. The role list is fixed, so
// a missing batch poster means the provisioning contract was violated.
func BatchPoster(accounts []NodeAccount) (NodeAccount, error) {
	for _, a := range accounts {
		if a.Role == RoleBatchPoster {
			return a, nil
		}
	}
	return NodeAccount{}, fmt.Errorf("no batch poster account provisioned")
}
