package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cryptobooking/booking-client/pkg/metrics"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrReverted is returned by Wait when the transaction was mined with a
// failed receipt.
var ErrReverted = errors.New("execution reverted")

// Tx is a submitted state-changing call awaiting finalization.
type Tx interface {
	Hash() string
	Wait(ctx context.Context) error
}

type pendingTx struct {
	method  string
	tx      *types.Transaction
	backend bind.DeployBackend
	timeout time.Duration
	metrics *metrics.ContractCallMetrics
}

func (p *pendingTx) Hash() string {
	return p.tx.Hash().Hex()
}

// Wait blocks until the transaction is mined, ctx is done or the receipt
// timeout elapses. A zero timeout waits indefinitely.
func (p *pendingTx) Wait(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { p.metrics.Observe(p.method, metrics.KindWait, time.Since(start), err) }()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	receipt, err := bind.WaitMined(ctx, p.backend, p.tx)
	if err != nil {
		return fmt.Errorf("wait for %s %s: %w", p.method, p.Hash(), err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return fmt.Errorf("%s %s: %w", p.method, p.Hash(), ErrReverted)
	}
	return nil
}
