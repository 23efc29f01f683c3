package solanarpc

import (
	"context"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Client implements Contract on top of a Solana JSON-RPC node.
type Client struct {
	rpcClient  *rpc.Client
	endpoint   string
	commitment rpc.CommitmentType
}

var _ Contract = (*Client)(nil)

type Options struct {
	// Commitment level for queries and preflight checks. (default: confirmed)
	Commitment rpc.CommitmentType
}

func NewClient(endpoint string, options ...Options) *Client {
	var opts Options
	if len(options) > 0 {
		opts = options[0]
	}
	return &Client{
		rpcClient:  rpc.New(endpoint),
		endpoint:   endpoint,
		commitment: utils.Default(opts.Commitment, rpc.CommitmentConfirmed),
	}
}

// Endpoint returns the RPC URL this client talks to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) GetVersion(ctx context.Context) (string, error) {
	result, err := c.rpcClient.GetVersion(ctx)
	if err != nil {
		return "", errors.Wrapf(err, "can't get version from %s", c.endpoint)
	}
	return result.SolanaCore, nil
}

func (c *Client) GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64) (uint64, error) {
	lamports, err := c.rpcClient.GetMinimumBalanceForRentExemption(ctx, dataSize, c.commitment)
	if err != nil {
		return 0, errors.Wrap(err, "can't get minimum balance for rent exemption")
	}
	return lamports, nil
}

func (c *Client) GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	result, err := c.rpcClient.GetBalance(ctx, account, c.commitment)
	if err != nil {
		return 0, errors.Wrapf(err, "can't get balance of %s", account)
	}
	return result.Value, nil
}

func (c *Client) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	result, err := c.rpcClient.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return solana.Hash{}, errors.Wrap(err, "can't get latest blockhash")
	}
	return result.Value.Blockhash, nil
}

func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	signature, err := c.rpcClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "can't send transaction")
	}
	return signature, nil
}

func (c *Client) GetSignatureStatus(ctx context.Context, signature solana.Signature) (*SignatureStatus, error) {
	result, err := c.rpcClient.GetSignatureStatuses(ctx, true, signature)
	if err != nil {
		return nil, errors.Wrapf(err, "can't get signature status of %s", signature)
	}
	if len(result.Value) == 0 || result.Value[0] == nil {
		return nil, nil
	}
	status := result.Value[0]
	return &SignatureStatus{
		ConfirmationStatus: status.ConfirmationStatus,
		Err:                status.Err,
	}, nil
}
