//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package qdrant

import (
	"time"

	"github.com/qdrant/go-client/qdrant"
)

const (
	defaultCollectionName  = "contratos_kb"
	defaultHost            = "localhost"
	defaultPort            = 6334
	defaultDimension       = 1536
	defaultHNSWM           = 16
	defaultHNSWEfConstruct = 128
	defaultMaxRetries      = 3
	defaultBaseRetryDelay  = 100 * time.Millisecond
	defaultMaxRetryDelay   = 5 * time.Second
)

// Payload field names for stored documents.
const (
	fieldID        = "original_id"
	fieldName      = "name"
	fieldContent   = "content"
	fieldMetadata  = "metadata"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
)

// Distance represents the distance metric used for vector similarity search.
type Distance = qdrant.Distance

const (
	// DistanceCosine measures the cosine of the angle between two vectors.
	DistanceCosine = qdrant.Distance_Cosine

	// DistanceEuclid measures the straight-line distance between two points.
	DistanceEuclid = qdrant.Distance_Euclid

	// DistanceDot computes the dot product between two vectors.
	DistanceDot = qdrant.Distance_Dot

	// DistanceManhattan measures the sum of absolute differences (L1 norm).
	DistanceManhattan = qdrant.Distance_Manhattan
)

type options struct {
	client          Client
	host            string
	port            int
	apiKey          string
	useTLS          bool
	collectionName  string
	dimension       int
	distance        Distance
	onDiskVectors   bool
	onDiskPayload   bool
	hnswM           int
	hnswEfConstruct int
	maxRetries      int
	baseRetryDelay  time.Duration
	maxRetryDelay   time.Duration
}

var defaultOptions = options{
	host:            defaultHost,
	port:            defaultPort,
	collectionName:  defaultCollectionName,
	dimension:       defaultDimension,
	distance:        DistanceCosine,
	hnswM:           defaultHNSWM,
	hnswEfConstruct: defaultHNSWEfConstruct,
	maxRetries:      defaultMaxRetries,
	baseRetryDelay:  defaultBaseRetryDelay,
	maxRetryDelay:   defaultMaxRetryDelay,
}

// Option is a functional option for configuring the VectorStore.
type Option func(*options)

// WithHost sets the Qdrant server host.
func WithHost(host string) Option {
	return func(o *options) {
		if host != "" {
			o.host = host
		}
	}
}

// WithPort sets the Qdrant server gRPC port.
func WithPort(port int) Option {
	return func(o *options) {
		if port > 0 {
			o.port = port
		}
	}
}

// WithAPIKey sets the API key for Qdrant Cloud authentication.
func WithAPIKey(apiKey string) Option {
	return func(o *options) {
		o.apiKey = apiKey
	}
}

// WithTLS enables TLS for secure connections (required for Qdrant Cloud).
func WithTLS(enabled bool) Option {
	return func(o *options) {
		o.useTLS = enabled
	}
}

// WithCollectionName sets the collection name.
func WithCollectionName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.collectionName = name
		}
	}
}

// WithDimension sets the vector dimension. Must be positive.
func WithDimension(dim int) Option {
	return func(o *options) {
		if dim > 0 {
			o.dimension = dim
		}
	}
}

// WithDistance sets the distance metric for similarity search.
func WithDistance(d Distance) Option {
	return func(o *options) { o.distance = d }
}

// WithHNSWConfig sets HNSW index parameters.
func WithHNSWConfig(m, efConstruct int) Option {
	return func(o *options) {
		if m > 0 {
			o.hnswM = m
		}
		if efConstruct > 0 {
			o.hnswEfConstruct = efConstruct
		}
	}
}

// WithOnDiskVectors enables on-disk vector storage for large datasets.
func WithOnDiskVectors(enabled bool) Option {
	return func(o *options) { o.onDiskVectors = enabled }
}

// WithOnDiskPayload enables on-disk payload storage.
func WithOnDiskPayload(enabled bool) Option {
	return func(o *options) { o.onDiskPayload = enabled }
}

// WithMaxRetries sets the maximum retry attempts for transient errors.
func WithMaxRetries(retries int) Option {
	return func(o *options) {
		if retries >= 0 {
			o.maxRetries = retries
		}
	}
}

// WithBaseRetryDelay sets the initial delay before the first retry.
func WithBaseRetryDelay(delay time.Duration) Option {
	return func(o *options) {
		if delay > 0 {
			o.baseRetryDelay = delay
		}
	}
}

// WithMaxRetryDelay sets the maximum delay between retries.
func WithMaxRetryDelay(delay time.Duration) Option {
	return func(o *options) {
		if delay > 0 {
			o.maxRetryDelay = delay
		}
	}
}

// WithClient sets a pre-created Qdrant client.
// When provided, connection options (WithHost, WithPort, WithAPIKey, WithTLS) are ignored.
// The caller retains ownership and must close the client separately.
func WithClient(client Client) Option {
	return func(o *options) {
		o.client = client
	}
}
