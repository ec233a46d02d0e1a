package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/cryptobooking/booking-client/pkg/chain"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// keyProvider signs with a single raw private key.
type keyProvider struct {
	backend chain.Backend
	closeFn func()
	key     *ecdsa.PrivateKey
	account common.Address
	chainID *chainIDResolver
}

func newKeyProvider(backend chain.Backend, closeFn func(), hexKey string, chainID *chainIDResolver) (*keyProvider, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return &keyProvider{
		backend: backend,
		closeFn: closeFn,
		key:     key,
		account: crypto.PubkeyToAddress(key.PublicKey),
		chainID: chainID,
	}, nil
}

func (p *keyProvider) RequestAccounts(context.Context) ([]common.Address, error) {
	return []common.Address{p.account}, nil
}

func (p *keyProvider) Signer(ctx context.Context, account common.Address) (*bind.TransactOpts, error) {
	if account != p.account {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, account.Hex())
	}
	chainID, err := p.chainID.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return bind.NewKeyedTransactorWithChainID(p.key, chainID)
}

func (p *keyProvider) Backend() chain.Backend {
	return p.backend
}

func (p *keyProvider) Close() {
	if p.closeFn != nil {
		p.closeFn()
	}
}
