// Package chaintest provides an in-memory chain.Client for tests.
package chaintest

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Transfer records one native-token transfer issued through the client.
type Transfer struct {
	To     common.Address
	Amount *big.Int
}

// Client is a fixture implementation of chain.Client. Every mutating call
// is recorded; failures can be injected per operation.
type Client struct {
	From     common.Address
	Balances map[common.Address]*big.Int

	Transfers      []Transfer
	FailTransferAt int // fail the n-th transfer (0-based); -1 disables

	ContractCalls [][]byte
	ContractTxErr error

	// OnContractTx, when set, runs after a contract transaction is
	// registered, so tests can attach logs to its receipt.
	OnContractTx func(hash common.Hash, data []byte)

	Txs      map[common.Hash]*types.Transaction
	Receipts map[common.Hash]*types.Receipt

	nextNonce uint64
}

func NewClient(from common.Address) *Client {
	return &Client{
		From:           from,
		Balances:       make(map[common.Address]*big.Int),
		FailTransferAt: -1,
		Txs:            make(map[common.Hash]*types.Transaction),
		Receipts:       make(map[common.Hash]*types.Receipt),
	}
}

func (c *Client) Sender() common.Address {
	return c.From
}

func (c *Client) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	if b, ok := c.Balances[account]; ok {
		return new(big.Int).Set(b), nil
	}
	return big.NewInt(0), nil
}

func (c *Client) Transfer(ctx context.Context, to common.Address, amount *big.Int) (common.Hash, error) {
	if c.FailTransferAt >= 0 && len(c.Transfers) == c.FailTransferAt {
		return common.Hash{}, fmt.Errorf("injected transfer failure at index %d", c.FailTransferAt)
	}
	c.Transfers = append(c.Transfers, Transfer{To: to, Amount: new(big.Int).Set(amount)})
	return crypto.Keccak256Hash(to.Bytes(), amount.Bytes()), nil
}

// SendContractTx records the calldata and registers the resulting
// transaction plus an empty receipt so they can be fetched back by hash.
// Tests attach RollupCreated logs to the receipt as needed.
func (c *Client) SendContractTx(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	if c.ContractTxErr != nil {
		return common.Hash{}, c.ContractTxErr
	}
	c.ContractCalls = append(c.ContractCalls, data)

	tx := types.NewTransaction(c.nextNonce, to, value, 1_000_000, big.NewInt(1), data)
	c.nextNonce++

	hash := tx.Hash()
	c.Txs[hash] = tx
	if _, ok := c.Receipts[hash]; !ok {
		c.Receipts[hash] = &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: hash}
	}
	if c.OnContractTx != nil {
		c.OnContractTx(hash, data)
	}
	return hash, nil
}

func (c *Client) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, error) {
	tx, ok := c.Txs[hash]
	if !ok {
		return nil, fmt.Errorf("transaction %s not found", hash.Hex())
	}
	return tx, nil
}

func (c *Client) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	receipt, ok := c.Receipts[hash]
	if !ok {
		return nil, fmt.Errorf("receipt for %s not found", hash.Hex())
	}
	return receipt, nil
}
