package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/chainlaunch/rolluplaunch/pkg/logger"
)

const transferGasLimit = 21000

// Client is the base-chain surface the deployment pipeline needs. Every
// method suspends until the chain responds; transaction-sending methods
// wait for the transaction to be mined and return its hash.
type Client interface {
	Sender() common.Address
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
	Transfer(ctx context.Context, to common.Address, amount *big.Int) (common.Hash, error)
	SendContractTx(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// RPCClient implements Client against a JSON-RPC endpoint, signing with a
// single deployer key. Transactions are submitted strictly sequentially by
// the callers; the deployer's nonce discipline depends on it.
type RPCClient struct {
	eth     *ethclient.Client
	key     *ecdsa.PrivateKey
	from    common.Address
	chainID *big.Int
	logger  *logger.Logger
}

// Dial connects to the base chain and prepares the deployer signer.
func Dial(ctx context.Context, rpcURL, deployerKeyHex string, log *logger.Logger) (*RPCClient, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to base chain: %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(deployerKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid deployer private key: %w", err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query base chain id: %w", err)
	}

	return &RPCClient{
		eth:     eth,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		chainID: chainID,
		logger:  log.With("component", "chain_client"),
	}, nil
}

func (c *RPCClient) Sender() common.Address {
	return c.from
}

func (c *RPCClient) ChainID() *big.Int {
	return c.chainID
}

func (c *RPCClient) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	return c.eth.BalanceAt(ctx, account, nil)
}

// Transfer sends a native-token transfer and waits for it to be mined.
func (c *RPCClient) Transfer(ctx context.Context, to common.Address, amount *big.Int) (common.Hash, error) {
	return c.sendAndWait(ctx, to, amount, nil, transferGasLimit)
}

// SendContractTx sends a contract call and waits for it to be mined.
func (c *RPCClient) SendContractTx(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	gas, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
		From:  c.from,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("gas estimation failed: %w", err)
	}
	return c.sendAndWait(ctx, to, value, data, gas)
}

func (c *RPCClient) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, error) {
	tx, _, err := c.eth.TransactionByHash(ctx, hash)
	return tx, err
}

func (c *RPCClient) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return c.eth.TransactionReceipt(ctx, hash)
}

func (c *RPCClient) Close() {
	c.eth.Close()
}

func (c *RPCClient) sendAndWait(ctx context.Context, to common.Address, value *big.Int, data []byte, gas uint64) (common.Hash, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, c.from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to fetch nonce: %w", err)
	}

	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to fetch gas price: %w", err)
	}

	tx := types.NewTransaction(nonce, to, value, gas, gasPrice, data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	c.logger.Info("Transaction submitted, waiting for it to be mined", "tx", signed.Hash().Hex())
	receipt, err := bind.WaitMined(ctx, c.eth, signed)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed waiting for transaction %s: %w", signed.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return common.Hash{}, fmt.Errorf("transaction reverted: %s", signed.Hash().Hex())
	}

	return signed.Hash(), nil
}
