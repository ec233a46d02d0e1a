package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/cryptobooking/booking-client/pkg/chain"
	"github.com/cryptobooking/booking-client/pkg/config"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
)

type scryptParams struct {
	n int
	p int
}

var standardScrypt = scryptParams{n: keystore.StandardScryptN, p: keystore.StandardScryptP}

// keystoreProvider signs with accounts from an encrypted keystore directory.
type keystoreProvider struct {
	backend    chain.Backend
	closeFn    func()
	ks         *keystore.KeyStore
	preferred  string
	passphrase string
	chainID    *chainIDResolver
}

func newKeystoreProvider(backend chain.Backend, closeFn func(), cfg config.WalletConfig, chainID *chainIDResolver, params scryptParams) (*keystoreProvider, error) {
	dir := strings.TrimSpace(cfg.KeystoreDir)
	if dir == "" {
		return nil, ErrProviderNotDetected
	}
	preferred := strings.TrimSpace(cfg.KeystoreAccount)
	if preferred != "" && !common.IsHexAddress(preferred) {
		return nil, fmt.Errorf("keystore account %q is not an address", preferred)
	}
	return &keystoreProvider{
		backend:    backend,
		closeFn:    closeFn,
		ks:         keystore.NewKeyStore(dir, params.n, params.p),
		preferred:  preferred,
		passphrase: cfg.KeystorePassphrase,
		chainID:    chainID,
	}, nil
}

// RequestAccounts lists keystore accounts, the configured one first.
func (p *keystoreProvider) RequestAccounts(context.Context) ([]common.Address, error) {
	accs := p.ks.Accounts()
	out := make([]common.Address, 0, len(accs))
	if p.preferred != "" {
		preferred := common.HexToAddress(p.preferred)
		if !p.ks.HasAddress(preferred) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, preferred.Hex())
		}
		out = append(out, preferred)
	}
	for _, acc := range accs {
		if p.preferred != "" && acc.Address == out[0] {
			continue
		}
		out = append(out, acc.Address)
	}
	return out, nil
}

func (p *keystoreProvider) Signer(ctx context.Context, account common.Address) (*bind.TransactOpts, error) {
	if !p.ks.HasAddress(account) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, account.Hex())
	}
	acc := accounts.Account{Address: account}
	if err := p.ks.Unlock(acc, p.passphrase); err != nil {
		return nil, fmt.Errorf("unlock %s: %w", account.Hex(), err)
	}
	chainID, err := p.chainID.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return bind.NewKeyStoreTransactorWithChainID(p.ks, acc, chainID)
}

func (p *keystoreProvider) Backend() chain.Backend {
	return p.backend
}

func (p *keystoreProvider) Close() {
	if p.closeFn != nil {
		p.closeFn()
	}
}
