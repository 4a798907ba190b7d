package services

import (
	"context"

	"bikeshare/internal/dataset"
	"bikeshare/pkg/contracts/events"
)

// Broadcaster pushes messages to connected dashboard pages
type Broadcaster interface {
	Publish(msg events.WebSocketMessage)
}

// ClientCounter reports connected websocket clients
type ClientCounter interface {
	ClientCount() int
}

// LoaderFunc loads the dataset at path
type LoaderFunc func(ctx context.Context, path string, opts ...dataset.Option) (*dataset.Dataset, error)
