package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/cryptobooking/booking-client/pkg/chain"
	"github.com/cryptobooking/booking-client/pkg/config"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	// ErrProviderNotDetected means no signing wallet is available to this
	// process.
	ErrProviderNotDetected = errors.New("wallet provider not detected")
	// ErrNoAccounts means the provider exposes no account to connect with.
	ErrNoAccounts = errors.New("wallet provider exposed no accounts")
	// ErrUnknownAccount means a signer was requested for an account the
	// provider does not hold.
	ErrUnknownAccount = errors.New("account not held by wallet provider")
)

// Provider is a connected wallet: it lists accounts and signs for them.
type Provider interface {
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	Signer(ctx context.Context, account common.Address) (*bind.TransactOpts, error)
	Backend() chain.Backend
	Close()
}

// Detector finds a wallet provider.
type Detector interface {
	Detect(ctx context.Context) (Provider, error)
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(ctx context.Context) (Provider, error)

func (f DetectorFunc) Detect(ctx context.Context) (Provider, error) {
	return f(ctx)
}

// NewDetector returns a Detector reading the given configuration.
func NewDetector(chainCfg config.ChainConfig, walletCfg config.WalletConfig) Detector {
	return DetectorFunc(func(ctx context.Context) (Provider, error) {
		return Detect(ctx, chainCfg, walletCfg)
	})
}

// Detect dials the configured node and opens the configured signing source.
func Detect(ctx context.Context, chainCfg config.ChainConfig, walletCfg config.WalletConfig) (Provider, error) {
	if strings.TrimSpace(chainCfg.RPCURL) == "" || !walletCfg.Configured() {
		return nil, ErrProviderNotDetected
	}
	client, err := ethclient.DialContext(ctx, chainCfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", chainCfg.RPCURL, err)
	}
	chainID := newChainIDResolver(chainCfg.ChainID, client.ChainID)

	var provider Provider
	if strings.TrimSpace(walletCfg.PrivateKey) != "" {
		provider, err = newKeyProvider(client, client.Close, walletCfg.PrivateKey, chainID)
	} else {
		provider, err = newKeystoreProvider(client, client.Close, walletCfg, chainID, standardScrypt)
	}
	if err != nil {
		client.Close()
		return nil, err
	}
	return provider, nil
}

type chainIDResolver struct {
	mu     sync.Mutex
	fixed  *big.Int
	lookup func(context.Context) (*big.Int, error)
}

func newChainIDResolver(configured int64, lookup func(context.Context) (*big.Int, error)) *chainIDResolver {
	r := &chainIDResolver{lookup: lookup}
	if configured > 0 {
		r.fixed = big.NewInt(configured)
	}
	return r
}

// Resolve returns the configured chain id, asking the node once otherwise.
func (r *chainIDResolver) Resolve(ctx context.Context) (*big.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fixed != nil {
		return new(big.Int).Set(r.fixed), nil
	}
	if r.lookup == nil {
		return nil, errors.New("chain id unknown")
	}
	id, err := r.lookup(ctx)
	if err != nil {
		return nil, fmt.Errorf("query chain id: %w", err)
	}
	r.fixed = id
	return new(big.Int).Set(id), nil
}
