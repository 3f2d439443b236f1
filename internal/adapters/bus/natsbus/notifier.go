// Package natsbus publica los eventos de actas en NATS.
package natsbus

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"actas-mantenimiento/internal/domain/actas"
)

// publisher es lo que se usa de *nats.Conn.
type publisher interface {
	PublishMsg(m *nats.Msg) error
	FlushWithContext(ctx context.Context) error
}

// Notifier publica cada evento en <prefix>.<tipo>, p. ej. actas.acta.created.
type Notifier struct {
	conn   publisher
	close  func()
	prefix string
	newID  func() string
}

var _ actas.Notifier = (*Notifier)(nil)

// Connect abre la conexión a url.
func Connect(url, prefix string, opts ...nats.Option) (*Notifier, error) {
	opts = append([]nats.Option{
		nats.Name("actas-mantenimiento"),
		nats.Timeout(5 * time.Second),
		nats.MaxReconnects(-1),
	}, opts...)

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}

	n := newNotifier(nc, prefix)
	n.close = func() {
		if err := nc.Drain(); err != nil {
			nc.Close()
		}
	}
	return n, nil
}

func newNotifier(p publisher, prefix string) *Notifier {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		prefix = "actas"
	}
	return &Notifier{
		conn:   p,
		prefix: prefix,
		newID:  uuid.NewString,
	}
}

func (n *Notifier) Subject(t actas.EventType) string {
	return n.prefix + "." + string(t)
}

// Notify publica y espera el flush, así un servidor caído se reporta acá.
func (n *Notifier) Notify(ctx context.Context, e actas.Event) error {
	if n == nil || n.conn == nil {
		return errors.New("nil notifier")
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	msg := nats.NewMsg(n.Subject(e.Type))
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, n.newID())
	msg.Header.Set("Content-Type", "application/json")

	if err := n.conn.PublishMsg(msg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return n.conn.FlushWithContext(ctx)
}

func (n *Notifier) Close() {
	if n == nil || n.close == nil {
		return
	}
	n.close()
}
