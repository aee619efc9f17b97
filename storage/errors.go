package storage

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

var ErrPerformanceNotFound = errors.New("performance not found in storage")
var ErrPoemNotFound = errors.New("poem not found in storage")
var ErrDuplicateVote = errors.New("vote already exists for this poem pair")
var ErrStoreUnavailable = errors.New("storage temporarily unavailable")

// classifyServiceError maps DynamoDB faults we can do nothing about onto
// ErrStoreUnavailable so controllers can answer 503 instead of a generic 500.
func classifyServiceError(err error) error {
	if err == nil {
		return nil
	}

	var ise *types.InternalServerError
	if errors.As(err, &ise) {
		return ErrStoreUnavailable
	}
	var throttled *types.ProvisionedThroughputExceededException
	if errors.As(err, &throttled) {
		return ErrStoreUnavailable
	}
	var limit *types.RequestLimitExceeded
	if errors.As(err, &limit) {
		return ErrStoreUnavailable
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorFault() == smithy.FaultServer {
		return ErrStoreUnavailable
	}

	return err
}
