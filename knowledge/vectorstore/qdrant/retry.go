//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package qdrant

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/opencontratos/contratos-kb/log"
)

// retryable reports whether err is a transient gRPC failure worth retrying.
func retryable(err error) bool {
	st, ok := status.FromError(err)
	if err == nil || !ok {
		return false
	}
	switch st.Code() {
	case codes.Unavailable, codes.ResourceExhausted, codes.Aborted, codes.DeadlineExceeded:
		return true
	default:
		return false
	}
}

// retry runs op, retrying transient failures with exponential backoff. The
// retry budget and delays come from the store options.
func retry[T any](ctx context.Context, o options, op func() (T, error)) (T, error) {
	delay := o.baseRetryDelay
	for attempt := 0; ; attempt++ {
		result, err := op()
		if err == nil || !retryable(err) || attempt == o.maxRetries {
			return result, err
		}

		log.Debugf("qdrant: transient error, retrying in %v (attempt %d/%d): %v",
			delay, attempt+1, o.maxRetries, err)
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(delay):
		}
		if delay *= 2; delay > o.maxRetryDelay {
			delay = o.maxRetryDelay
		}
	}
}

// retryVoid is retry for operations without a result.
func retryVoid(ctx context.Context, o options, op func() error) error {
	_, err := retry(ctx, o, func() (struct{}, error) {
		return struct{}{}, op()
	})
	return err
}
