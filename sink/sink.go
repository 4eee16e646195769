// Package sink publishes string payloads to a named destination on a
// downstream broker.
//
// Every Sink needs an explicit Connect before Publish succeeds.
package sink

import (
	"context"
	"errors"
	"sync"

	lg "github.com/Andrej220/go-utils/zlog"
)

var (
	// ErrNotConnected is returned by Publish before Connect or after Close.
	ErrNotConnected = errors.New("sink: not connected")

	// ErrEmptyDestination is returned when Publish gets no destination.
	ErrEmptyDestination = errors.New("sink: empty destination")
)

// Sink is a connection to a message broker.
type Sink interface {
	Connect(ctx context.Context) error
	Publish(ctx context.Context, destination, payload string) error
	Close() error
}

// Message is one payload recorded by a Stub.
type Message struct {
	Destination string
	Payload     string
}

// Stub is an in-memory Sink that records what it is given.
type Stub struct {
	mu        sync.Mutex
	url       string
	connected bool
	messages  []Message
}

var _ Sink = (*Stub)(nil)

func NewStub(url string) *Stub {
	return &Stub{url: url}
}

func (s *Stub) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = true
	lg.FromContext(ctx).Info("stub sink connected", lg.String("url", s.url))
	return nil
}

func (s *Stub) Publish(ctx context.Context, destination, payload string) error {
	if destination == "" {
		return ErrEmptyDestination
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return ErrNotConnected
	}
	s.messages = append(s.messages, Message{Destination: destination, Payload: payload})
	return nil
}

func (s *Stub) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	return nil
}

// Messages returns a copy of everything published so far.
func (s *Stub) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}
