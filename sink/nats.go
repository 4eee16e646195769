package sink

import (
	"context"
	"fmt"
	"sync"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/nats-io/nats.go"
)

const defaultConnectTimeout = 2 * time.Second

// NATSConfig configures a NATS sink.
type NATSConfig struct {
	URL string

	// Name is reported to the server as the client connection name.
	Name string

	// Prefix, if set, is prepended to every destination as "<prefix>.<dest>".
	Prefix string

	ConnectTimeout time.Duration
}

// NATS publishes to subjects on a NATS server.
type NATS struct {
	cfg NATSConfig

	mu sync.Mutex
	nc *nats.Conn
}

var _ Sink = (*NATS)(nil)

func NewNATS(cfg NATSConfig) *NATS {
	if cfg.URL == "" {
		cfg.URL = nats.DefaultURL
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	return &NATS{cfg: cfg}
}

func (n *NATS) Connect(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.nc != nil && !n.nc.IsClosed() {
		return nil
	}

	timeout := n.cfg.ConnectTimeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(dl))
	}
	nc, err := nats.Connect(n.cfg.URL, nats.Timeout(timeout), func(o *nats.Options) error {
		if n.cfg.Name != "" {
			o.Name = n.cfg.Name
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sink: connect %s: %w", n.cfg.URL, err)
	}
	n.nc = nc
	lg.FromContext(ctx).Info("nats sink connected", lg.String("url", nc.ConnectedUrl()))
	return nil
}

func (n *NATS) Publish(ctx context.Context, destination, payload string) error {
	if destination == "" {
		return ErrEmptyDestination
	}

	n.mu.Lock()
	nc := n.nc
	n.mu.Unlock()

	if nc == nil || nc.IsClosed() {
		return ErrNotConnected
	}
	if err := nc.Publish(n.subject(destination), []byte(payload)); err != nil {
		return fmt.Errorf("sink: publish %s: %w", destination, err)
	}
	return nil
}

// Flush waits until the server has processed everything published so far.
func (n *NATS) Flush(ctx context.Context) error {
	n.mu.Lock()
	nc := n.nc
	n.mu.Unlock()

	if nc == nil || nc.IsClosed() {
		return ErrNotConnected
	}
	if _, ok := ctx.Deadline(); !ok {
		return nc.FlushTimeout(n.cfg.ConnectTimeout)
	}
	return nc.FlushWithContext(ctx)
}

func (n *NATS) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.nc == nil {
		return nil
	}
	err := n.nc.Drain()
	n.nc.Close()
	n.nc = nil
	return err
}

func (n *NATS) subject(destination string) string {
	if n.cfg.Prefix == "" {
		return destination
	}
	return n.cfg.Prefix + "." + destination
}
