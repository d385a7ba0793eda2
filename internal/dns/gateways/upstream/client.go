// Package upstream sends DNS queries to recursive nameservers over UDP and
// returns their decoded responses. It owns the networking concerns — dialing,
// deadlines, response matching — and leaves the wire format to the codec.
package upstream

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/haukened/rr-dig/internal/dns/common/log"
	"github.com/haukened/rr-dig/internal/dns/domain"
	"github.com/haukened/rr-dig/internal/dns/gateways/wire"
	"github.com/haukened/rr-dig/internal/dns/services/lookup"
)

var (
	// ErrNoServers means the client was constructed without any servers.
	ErrNoServers = errors.New("no upstream DNS servers provided")

	// ErrNoCodec means the client was constructed without a codec.
	ErrNoCodec = errors.New("DNS codec is required")

	// ErrIDMismatch means a response carried a transaction id that does not
	// match the query. Crossed or spoofed replies are discarded, never
	// returned.
	ErrIDMismatch = errors.New("response transaction id does not match query")

	// ErrNotResponse means the QR bit was clear: the peer echoed a query
	// instead of answering it.
	ErrNotResponse = errors.New("message is not a response")
)

const (
	defaultTimeout = 5 * time.Second

	// readBufferSize holds any UDP response this client can receive.
	// Plain DNS over UDP caps at 512 bytes; the slack absorbs servers
	// that assume EDNS0 buffer sizes.
	readBufferSize = 4096
)

// DialFunc establishes a network connection. Injected so tests can supply
// an in-memory pipe; defaults to net.Dialer.DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Client exchanges DNS messages with upstream servers over UDP.
type Client struct {
	servers  []string
	timeout  time.Duration
	parallel bool
	codec    wire.Codec
	dial     DialFunc
	logger   log.Logger
}

// Options configures an upstream Client.
type Options struct {
	// Servers lists nameservers in ip:port form, tried in order (serial)
	// or raced (parallel). Required.
	Servers []string

	// Timeout bounds each exchange when the context has no deadline.
	// Defaults to 5 seconds.
	Timeout time.Duration

	// Parallel races all servers and returns the first success instead of
	// walking them in order.
	Parallel bool

	// Codec builds queries and decodes responses. Required.
	Codec wire.Codec

	// Dial is injected for tests. Nil uses net.Dialer.
	Dial DialFunc

	// Logger receives per-exchange traces. Nil discards them.
	Logger log.Logger
}

// New constructs an upstream Client from opts.
func New(opts Options) (*Client, error) {
	if len(opts.Servers) == 0 {
		return nil, ErrNoServers
	}
	if opts.Codec == nil {
		return nil, ErrNoCodec
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Dial == nil {
		opts.Dial = (&net.Dialer{}).DialContext
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	return &Client{
		servers:  opts.Servers,
		timeout:  opts.Timeout,
		parallel: opts.Parallel,
		codec:    opts.Codec,
		dial:     opts.Dial,
		logger:   opts.Logger,
	}, nil
}

// Exchange sends one query for q and returns the decoded response. The
// response must carry the query's transaction id and the QR bit; anything
// else is an error. Truncated responses come back as-is with the TC bit
// observable on the header — this client does not retry over TCP.
func (c *Client) Exchange(ctx context.Context, q domain.Question) (domain.Message, error) {
	ctx, cancel := c.ensureDeadline(ctx)
	if cancel != nil {
		defer cancel()
	}

	if c.parallel {
		return c.exchangeParallel(ctx, q)
	}
	return c.exchangeSerial(ctx, q)
}

// ensureDeadline applies the configured timeout when the context has no
// deadline of its own.
func (c *Client) ensureDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); !ok {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, nil
}

// exchangeSerial tries each server in order until one answers.
func (c *Client) exchangeSerial(ctx context.Context, q domain.Question) (domain.Message, error) {
	var lastErr error
	for _, server := range c.servers {
		msg, err := c.queryServer(ctx, server, q)
		if err == nil {
			return msg, nil
		}
		c.logger.Debug(map[string]any{
			"server": server,
			"name":   q.Name,
			"error":  err.Error(),
		}, "upstream exchange failed")
		lastErr = err
	}
	return domain.Message{}, fmt.Errorf("all %d upstream servers failed: %w", len(c.servers), lastErr)
}

// exchangeParallel races every server and takes the first success.
func (c *Client) exchangeParallel(ctx context.Context, q domain.Question) (domain.Message, error) {
	msgChan := make(chan domain.Message, 1)
	errChan := make(chan error, len(c.servers))

	for _, server := range c.servers {
		go func(srv string) {
			msg, err := c.queryServer(ctx, srv, q)
			if err != nil {
				errChan <- fmt.Errorf("server %s: %w", srv, err)
				return
			}
			select {
			case msgChan <- msg:
			default:
				// Another server already won.
			}
		}(server)
	}

	var errs []error
	for i := 0; i < len(c.servers); i++ {
		select {
		case msg := <-msgChan:
			return msg, nil
		case err := <-errChan:
			errs = append(errs, err)
		case <-ctx.Done():
			return domain.Message{}, ctx.Err()
		}
	}
	return domain.Message{}, fmt.Errorf("all %d upstream servers failed: %w", len(c.servers), errors.Join(errs...))
}

// queryServer performs a single query/response exchange with one server.
func (c *Client) queryServer(ctx context.Context, server string, q domain.Question) (domain.Message, error) {
	query, err := c.codec.BuildQuery(q.Name, q.Type)
	if err != nil {
		return domain.Message{}, fmt.Errorf("encode failed: %w", err)
	}
	// The codec places the transaction id in the first header field.
	queryID := binary.BigEndian.Uint16(query[:2])

	conn, err := c.dial(ctx, "udp", server)
	if err != nil {
		return domain.Message{}, fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	type result struct {
		msg domain.Message
		err error
	}
	resultChan := make(chan result, 1)

	go func() {
		if _, err := conn.Write(query); err != nil {
			resultChan <- result{err: fmt.Errorf("write failed: %w", err)}
			return
		}
		buffer := make([]byte, readBufferSize)
		n, err := conn.Read(buffer)
		if err != nil {
			resultChan <- result{err: fmt.Errorf("read failed: %w", err)}
			return
		}
		msg, err := c.codec.DecodeMessage(buffer[:n])
		if err != nil {
			resultChan <- result{err: fmt.Errorf("decode failed: %w", err)}
			return
		}
		resultChan <- result{msg: msg, err: validateResponse(msg, queryID)}
	}()

	select {
	case res := <-resultChan:
		if res.err != nil {
			return domain.Message{}, res.err
		}
		c.logger.Debug(map[string]any{
			"server":  server,
			"name":    q.Name,
			"type":    q.Type.String(),
			"rcode":   res.msg.RCode().String(),
			"answers": len(res.msg.Answers),
		}, "upstream exchange complete")
		return res.msg, nil
	case <-ctx.Done():
		return domain.Message{}, ctx.Err()
	}
}

var _ lookup.Upstream = (*Client)(nil)

// validateResponse checks that msg is the answer to the query we sent.
func validateResponse(msg domain.Message, queryID uint16) error {
	if msg.Header.ID != queryID {
		return fmt.Errorf("got id %d, sent %d: %w", msg.Header.ID, queryID, ErrIDMismatch)
	}
	if !msg.IsResponse() {
		return ErrNotResponse
	}
	return nil
}
