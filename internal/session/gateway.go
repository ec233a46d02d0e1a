package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/cryptobooking/booking-client/pkg/chain"
	pkgerrors "github.com/cryptobooking/booking-client/pkg/errors"
	"github.com/cryptobooking/booking-client/pkg/logger"
	"github.com/cryptobooking/booking-client/pkg/models"
	"github.com/cryptobooking/booking-client/pkg/wallet"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

const (
	NoticeProviderMissing = "Please install a wallet provider!"
	NoticeConnectFailed   = "Error connecting to wallet"
	NoticeDisconnected    = "Wallet disconnected"
)

// Binder creates a contract proxy bound to signer.
type Binder func(backend chain.Backend, signer *bind.TransactOpts) (Contract, error)

// ChainBinder binds the rental contract at address with opts.
func ChainBinder(address common.Address, opts chain.Options) Binder {
	return func(backend chain.Backend, signer *bind.TransactOpts) (Contract, error) {
		return chain.Bind(address, backend, signer, opts)
	}
}

// GatewayParams groups dependencies for the wallet gateway.
type GatewayParams struct {
	Detector wallet.Detector
	Binder   Binder
	Logger   *logger.Logger
}

// Gateway moves sessions between the disconnected and connected states.
type Gateway struct {
	detector wallet.Detector
	binder   Binder
	logg     *logger.Logger
}

// NewGateway builds a gateway with the required dependencies.
func NewGateway(params GatewayParams) (*Gateway, error) {
	if params.Detector == nil {
		return nil, fmt.Errorf("wallet detector required")
	}
	if params.Binder == nil {
		return nil, fmt.Errorf("contract binder required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Gateway{detector: params.Detector, binder: params.Binder, logg: params.Logger}, nil
}

// Connect runs the full wallet handshake and installs the resulting
// connection. A missing provider leaves the session untouched; any other
// failure leaves it disconnected. The returned notice is user-facing.
func (g *Gateway) Connect(ctx context.Context, sess *Session) (string, error) {
	ctx = g.logg.WithSessionID(ctx, sess.ID())

	provider, err := g.detector.Detect(ctx)
	if err != nil {
		if errors.Is(err, wallet.ErrProviderNotDetected) {
			g.logg.Warn(ctx, "wallet provider not detected")
			return NoticeProviderMissing, pkgerrors.Wrap(pkgerrors.CodePrecondition, err, NoticeProviderMissing)
		}
		return g.fail(ctx, sess, nil, "detect wallet provider", err)
	}

	accounts, err := provider.RequestAccounts(ctx)
	if err != nil {
		return g.fail(ctx, sess, provider, "request accounts", err)
	}
	if len(accounts) == 0 {
		return g.fail(ctx, sess, provider, "request accounts", wallet.ErrNoAccounts)
	}
	account := accounts[0]

	signer, err := provider.Signer(ctx, account)
	if err != nil {
		return g.fail(ctx, sess, provider, "derive signer", err)
	}
	contract, err := g.binder(provider.Backend(), signer)
	if err != nil {
		return g.fail(ctx, sess, provider, "bind contract", err)
	}

	prev := sess.swapConnection(&Connection{Account: account, Contract: contract, provider: provider})
	release(prev)
	sess.ClearError()

	ctx = g.logg.WithAccount(ctx, account.Hex())
	g.logg.Info(ctx, "wallet connected")
	return "Connected to: " + models.ShortAddress(account.Hex()), nil
}

// Disconnect drops the connection and the views that depended on it.
func (g *Gateway) Disconnect(ctx context.Context, sess *Session) string {
	prev := sess.swapConnection(nil)
	release(prev)
	if prev != nil {
		g.logg.Info(g.logg.WithSessionID(ctx, sess.ID()), "wallet disconnected")
	}
	return NoticeDisconnected
}

func (g *Gateway) fail(ctx context.Context, sess *Session, provider wallet.Provider, step string, err error) (string, error) {
	if provider != nil {
		provider.Close()
	}
	release(sess.swapConnection(nil))

	classified := pkgerrors.As(chain.Classify(err))
	if errors.Is(err, wallet.ErrNoAccounts) || errors.Is(err, wallet.ErrUnknownAccount) {
		classified = pkgerrors.Wrap(pkgerrors.CodePrecondition, err, err.Error())
	}
	classified.WithDetails(map[string]any{"step": step})
	sess.SetError(classified)

	g.logg.Error(g.logg.WithField(ctx, "step", step), NoticeConnectFailed, err)
	return NoticeConnectFailed + ": " + pkgerrors.UserMessage(classified), classified
}

func release(conn *Connection) {
	if conn != nil && conn.provider != nil {
		conn.provider.Close()
	}
}
