package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/observability"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/protocol"
	"github.com/rs/zerolog"
)

// Options configures a Client.
type Options struct {
	Addr          string
	DialTimeout   time.Duration
	WriteTimeout  time.Duration
	ReadTimeout   time.Duration
	MaxReplyBytes int
}

func DefaultOptions() Options {
	return Options{
		Addr:          "127.0.0.1:8080",
		DialTimeout:   5 * time.Second,
		WriteTimeout:  5 * time.Second,
		ReadTimeout:   15 * time.Second,
		MaxReplyBytes: 64 * 1024,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if strings.TrimSpace(o.Addr) == "" {
		o.Addr = def.Addr
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = def.DialTimeout
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = def.WriteTimeout
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = def.ReadTimeout
	}
	if o.MaxReplyBytes <= 0 {
		o.MaxReplyBytes = def.MaxReplyBytes
	}
	o.Addr = strings.TrimSpace(o.Addr)
	return o
}

// Client opens a fresh connection per command. It keeps no connection state
// between calls and is safe for concurrent use.
type Client struct {
	opts Options
	log  zerolog.Logger
}

func NewClient(opts Options) *Client {
	return &Client{
		opts: opts.withDefaults(),
		log:  observability.Component("transport"),
	}
}

func (c *Client) Addr() string {
	return c.opts.Addr
}

// Send writes cmd and returns the raw reply text.
func (c *Client) Send(ctx context.Context, cmd protocol.Command) (string, error) {
	dialer := net.Dialer{Timeout: c.opts.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.opts.Addr)
	if err != nil {
		return "", c.classify("dial", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	_ = conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
	if _, err := io.WriteString(conn, cmd.String()); err != nil {
		return "", c.classify("write", ctxErr(ctx, err))
	}
	if cw, ok := conn.(interface{ CloseWrite() error }); ok {
		if err := cw.CloseWrite(); err != nil {
			return "", c.classify("write", ctxErr(ctx, err))
		}
	}

	_ = conn.SetReadDeadline(time.Now().Add(c.opts.ReadTimeout))
	limit := int64(c.opts.MaxReplyBytes)
	raw, err := io.ReadAll(io.LimitReader(conn, limit+1))
	if err != nil {
		return "", c.classify("read", ctxErr(ctx, err))
	}
	if int64(len(raw)) > limit {
		return "", fmt.Errorf("%w: %s reply over %d bytes", protocol.ErrReplyTooLarge, cmd.Name(), limit)
	}
	if !utf8.Valid(raw) {
		return "", &TransportError{Kind: KindOther, Op: "read", Addr: c.opts.Addr, Err: errors.New("reply is not valid UTF-8")}
	}
	observability.RecordReplySize(cmd.Name(), len(raw))
	return string(raw), nil
}

// Do sends cmd and decodes the reply.
func (c *Client) Do(ctx context.Context, cmd protocol.Command) (protocol.Response, error) {
	start := time.Now()
	raw, err := c.Send(ctx, cmd)
	if err != nil {
		c.record(cmd, outcomeOf(nil, err), start, err)
		return nil, err
	}
	resp, err := protocol.Decode(raw)
	c.record(cmd, outcomeOf(resp, err), start, err)
	return resp, err
}

func (c *Client) record(cmd protocol.Command, outcome string, start time.Time, err error) {
	elapsed := time.Since(start)
	observability.RecordRequest(cmd.Name(), outcome, elapsed)
	event := c.log.Debug()
	if err != nil {
		event = c.log.Warn().Err(err)
	}
	event.Str("command", cmd.Name()).Str("outcome", outcome).Dur("elapsed", elapsed).Msg("request")
}

func (c *Client) classify(op string, err error) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return &TransportError{Kind: KindRefused, Op: op, Addr: c.opts.Addr, Err: err}
	}
	return &TransportError{Kind: KindOther, Op: op, Addr: c.opts.Addr, Err: err}
}

// ctxErr prefers the context cause over the deadline error it provoked.
func ctxErr(ctx context.Context, err error) error {
	if cause := ctx.Err(); cause != nil {
		return fmt.Errorf("%w (%v)", cause, err)
	}
	return err
}

func outcomeOf(resp protocol.Response, err error) string {
	var unknown *protocol.UnknownReplyError
	switch {
	case IsRefused(err):
		return "refused"
	case errors.Is(err, protocol.ErrReplyTooLarge):
		return "too_large"
	case errors.Is(err, protocol.ErrEmptyReply):
		return "empty_reply"
	case errors.As(err, &unknown):
		return "unknown_reply"
	case err != nil:
		return "transport"
	}
	switch resp.(type) {
	case protocol.ErrorReply:
		return "error"
	case protocol.EmptyReply:
		return "empty"
	case protocol.DataReply:
		return "data"
	case protocol.SuccessReply:
		return "success"
	case protocol.ComputedReply:
		return "computed"
	default:
		return "unknown_reply"
	}
}
