package funding

import (
	"context"
	"math/big"

	"github.com/chainlaunch/rolluplaunch/pkg/accounts"
	"github.com/chainlaunch/rolluplaunch/pkg/chain"
	apperrors "github.com/chainlaunch/rolluplaunch/pkg/errors"
	"github.com/chainlaunch/rolluplaunch/pkg/logger"
)

// Funder transfers base-chain gas tokens from the deployer to each
// provisioned operator account.
type Funder struct {
	logger *logger.Logger
	client chain.Client
}

func NewFunder(client chain.Client, log *logger.Logger) *Funder {
	return &Funder{
		logger: log.With("component", "funder"),
		client: client,
	}
}

// FundAccounts issues one transfer per account, strictly sequentially and
// in provisioning order. All transfers share the deployer's signing
// account, and the base chain enforces a strictly increasing nonce per
// sender, so each transfer is awaited before the next begins. The first
// failure aborts the remaining transfers; transfers already confirmed are
// durable and are not reverted.
func (f *Funder) FundAccounts(ctx context.Context, accts []accounts.NodeAccount, amount *big.Int) error {
	for i, acct := range accts {
		f.logger.Info("Funding operator account",
			"index", i,
			"role", acct.Role,
			"address", acct.Address.Hex(),
			"amount", chain.FormatEther(amount),
		)

		hash, err := f.client.Transfer(ctx, acct.Address, amount)
		if err != nil {
			return apperrors.NewFundingError("operator funding transfer failed", err, map[string]interface{}{
				"index":   i,
				"role":    string(acct.Role),
				"address": acct.Address.Hex(),
			})
		}
		f.logger.Info("Funding transfer confirmed", "address", acct.Address.Hex(), "tx", hash.Hex())
	}
	return nil
}
