package eth

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/certiblock/verifier-node/internal/core/domain"
)

// ErrEntryNotFound is returned when the ledger has no entry under the
// requested id.
var ErrEntryNotFound = errors.New("ledger entry not found")

// CredentialRegistry read interface. The registry stores one write-once entry
// per credential: content digest, issuer identity, subject id and creation
// timestamp.
const credentialRegistryABI = `[
  {"inputs":[{"internalType":"uint256","name":"ledgerId","type":"uint256"}],"name":"credentialExists","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"uint256","name":"ledgerId","type":"uint256"}],"name":"getCredential","outputs":[{"internalType":"string","name":"contentDigest","type":"string"},{"internalType":"string","name":"issuerIdentity","type":"string"},{"internalType":"string","name":"subjectId","type":"string"},{"internalType":"uint256","name":"createdAt","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// Registry binds the credential registry contract
type Registry struct {
	client   *Client
	contract *bind.BoundContract
}

// NewRegistry binds the registry contract deployed at addr
func NewRegistry(client *Client, addr common.Address) (*Registry, error) {
	parsed, err := abi.JSON(strings.NewReader(credentialRegistryABI))
	if err != nil {
		return nil, fmt.Errorf("parsing registry abi: %w", err)
	}
	contract := bind.NewBoundContract(addr, parsed, client.client, client.client, client.client)
	return &Registry{client: client, contract: contract}, nil
}

// EntryExists checks existence without fetching the entry fields
func (r *Registry) EntryExists(ctx context.Context, ledgerID int64) (bool, error) {
	_ctx, cancel := context.WithTimeout(ctx, r.client.Config.RPCResponseTimeout)
	defer cancel()

	var out []interface{}
	if err := r.contract.Call(&bind.CallOpts{Context: _ctx}, &out, "credentialExists", new(big.Int).SetInt64(ledgerID)); err != nil {
		return false, fmt.Errorf("calling credentialExists(%d): %w", ledgerID, err)
	}
	exists, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected credentialExists output type %T", out[0])
	}
	return exists, nil
}

// GetEntry fetches the ledger entry fields. Returns ErrEntryNotFound when the
// id has never been written.
func (r *Registry) GetEntry(ctx context.Context, ledgerID int64) (*domain.LedgerEntry, error) {
	exists, err := r.EntryExists(ctx, ledgerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrEntryNotFound
	}

	_ctx, cancel := context.WithTimeout(ctx, r.client.Config.RPCResponseTimeout)
	defer cancel()

	var out []interface{}
	if err := r.contract.Call(&bind.CallOpts{Context: _ctx}, &out, "getCredential", new(big.Int).SetInt64(ledgerID)); err != nil {
		return nil, fmt.Errorf("calling getCredential(%d): %w", ledgerID, err)
	}

	createdAt, ok := out[3].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected createdAt output type %T", out[3])
	}
	return &domain.LedgerEntry{
		ContentDigest:  out[0].(string),
		IssuerIdentity: out[1].(string),
		SubjectID:      out[2].(string),
		CreatedAt:      time.Unix(createdAt.Int64(), 0).UTC(),
	}, nil
}
