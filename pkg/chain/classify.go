package chain

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/cryptobooking/booking-client/pkg/errors"
	"github.com/ethereum/go-ethereum/rpc"
)

const revertMarker = "execution reverted"

// Classify maps a failure from the contract proxy onto the error taxonomy.
// Messages from the node or signer are kept verbatim.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if errors.Is(err, ErrMalformedOutput) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, err.Error())
	}
	if errors.Is(err, ErrReverted) {
		return pkgerrors.Wrap(pkgerrors.CodeExternalReverted, err, err.Error())
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		return pkgerrors.Wrap(pkgerrors.CodeExternalReverted, err, err.Error()).
			WithDetails(map[string]any{"data": dataErr.ErrorData()})
	}
	if strings.Contains(strings.ToLower(err.Error()), revertMarker) {
		return pkgerrors.Wrap(pkgerrors.CodeExternalReverted, err, err.Error())
	}

	rejected := pkgerrors.Wrap(pkgerrors.CodeExternalRejected, err, err.Error())
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		rejected.WithDetails(map[string]any{"rpc_code": rpcErr.ErrorCode()})
	}
	if errors.Is(err, context.DeadlineExceeded) {
		rejected.WithDetails(map[string]any{"timeout": true})
	}
	return rejected
}
