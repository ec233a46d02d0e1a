package errors

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	RPCCode    int    `json:"rpc_code,omitempty"`
	RPCMessage string `json:"rpc_message,omitempty"`
	RPCData    any    `json:"rpc_data,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		d.RPCCode = rpcErr.ErrorCode()
		d.RPCMessage = rpcErr.Error()
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		d.RPCData = dataErr.ErrorData()
		if d.RPCMessage == "" {
			d.RPCMessage = dataErr.Error()
		}
	}

	return d
}
