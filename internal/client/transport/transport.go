package transport

import (
	"context"
	"math/big"
)

// Quote is the fee required by the transport to deliver a message to a
// destination domain. NativeFee is payable in the source chain's native
// asset; SecondaryFee covers transports that charge in a second asset
// and is zero for most deployments.
type Quote struct {
	NativeFee    *big.Int
	SecondaryFee *big.Int
}

// Transport is the cross-domain messaging collaborator. Delivery is
// asynchronous; Send returns a receipt identifying the accepted message,
// not proof of delivery.
type Transport interface {
	Quote(ctx context.Context, destination uint32, message []byte) (Quote, error)
	Send(ctx context.Context, destination uint32, message []byte, payment *big.Int) (string, error)
}
