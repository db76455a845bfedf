package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/config"
)

type Client struct {
	nc      *nats.Conn
	subject string
	timeout time.Duration
}

// Connect dials NATS, backing off between attempts so a client started
// alongside the server does not give up straight away.
func Connect(ctx context.Context, url string) (*nats.Conn, error) {
	return retry.DoWithData(
		func() (*nats.Conn, error) {
			return nats.Connect(url, nats.Name("connectfour"))
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Str("url", url).Msg("nats-connect-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

func NewClient(nc *nats.Conn, cfg *config.Config) *Client {
	return &Client{
		nc:      nc,
		subject: cfg.GetString(config.KeyNatsSubject),
		timeout: cfg.GetDuration(config.KeyRequestTimeout),
	}
}

// RequestMove sends a position to whichever bot picks it up and returns the
// column it chose.
func (c *Client) RequestMove(ctx context.Context, b board.Board, iterations uint32) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	res, err := c.nc.RequestWithContext(ctx, c.subject, EncodeRequest(b, iterations))
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Msgf("%v for request", c.nc.LastError())
		}
		return 0, err
	}
	col, err := DecodeReply(res.Data)
	if err != nil {
		return 0, err
	}
	if !legalReply(b, col) {
		return 0, fmt.Errorf("bot returned unplayable column %d", col)
	}
	return col, nil
}

func (c *Client) Close() {
	c.nc.Close()
}
