// AngelaMos | 2026
// amqp_test.go

package events

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	closed bool
}

func (c *fakeConn) IsClosed() bool { return c.closed }

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type fakeChannel struct {
	closed     bool
	declareErr error
	declared   []string
	published  []string
}

func (c *fakeChannel) IsClosed() bool { return c.closed }

func (c *fakeChannel) ExchangeDeclare(name, _ string, _, _, _, _ bool, _ amqp.Table) error {
	if c.declareErr != nil {
		return c.declareErr
	}
	c.declared = append(c.declared, name)
	return nil
}

func (c *fakeChannel) PublishWithContext(
	_ context.Context,
	_, key string,
	_, _ bool,
	_ amqp.Publishing,
) error {
	c.published = append(c.published, key)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

type channelSource struct {
	next   []*fakeChannel
	err    error
	opened int
}

func (s *channelSource) open() (amqpChannel, error) {
	if s.err != nil {
		return nil, s.err
	}
	ch := s.next[0]
	s.next = s.next[1:]
	s.opened++
	return ch, nil
}

func newTestPublisher(conn *fakeConn, src *channelSource) *AMQPPublisher {
	return &AMQPPublisher{
		conn:        conn,
		openChannel: src.open,
		exchange:    "job_board.events",
	}
}

func TestPublisherReopensClosedChannel(t *testing.T) {
	first, second := &fakeChannel{}, &fakeChannel{}
	src := &channelSource{next: []*fakeChannel{first, second}}
	p := newTestPublisher(&fakeConn{}, src)
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, New(TypeJobCreated, nil)))
	assert.Equal(t, []string{TypeJobCreated}, first.published)

	first.closed = true

	require.NoError(t, p.Publish(ctx, New(TypeJobDeleted, nil)))
	assert.Equal(t, []string{TypeJobDeleted}, second.published)
	assert.Equal(t, []string{"job_board.events"}, second.declared)
	assert.Equal(t, 2, src.opened)
}

func TestPingReportsUnusableChannel(t *testing.T) {
	ch := &fakeChannel{}
	src := &channelSource{next: []*fakeChannel{ch}}
	p := newTestPublisher(&fakeConn{}, src)
	ctx := context.Background()

	require.NoError(t, p.Ping(ctx))

	ch.closed = true
	src.err = errors.New("channel quota exceeded")
	err := p.Ping(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open channel")

	err = p.Publish(ctx, New(TypeJobCreated, nil))
	assert.ErrorContains(t, err, "channel quota exceeded")
}

func TestPingFailsWhenExchangeCannotBeDeclared(t *testing.T) {
	ch := &fakeChannel{declareErr: errors.New("access refused")}
	p := newTestPublisher(&fakeConn{}, &channelSource{next: []*fakeChannel{ch}})

	err := p.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declare exchange job_board.events")
	assert.True(t, ch.closed)
}

func TestPublisherClose(t *testing.T) {
	conn := &fakeConn{}
	ch := &fakeChannel{}
	p := newTestPublisher(conn, &channelSource{next: []*fakeChannel{ch}})
	ctx := context.Background()

	require.NoError(t, p.Ping(ctx))
	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
	assert.True(t, conn.closed)

	assert.ErrorIs(t, p.Ping(ctx), ErrPublisherClosed)
	assert.ErrorIs(t, p.Publish(ctx, New(TypeJobCreated, nil)), ErrPublisherClosed)
	assert.NoError(t, p.Close())
}
