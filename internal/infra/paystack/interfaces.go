package paystack

import "context"

type VerifierInterface interface {
	VerifyTransaction(ctx context.Context, reference string) (*VerificationResult, error)
}

var _ VerifierInterface = (*Client)(nil)
