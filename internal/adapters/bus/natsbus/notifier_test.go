package natsbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"actas-mantenimiento/internal/domain/actas"
)

type fakeConn struct {
	msgs     []*nats.Msg
	pubErr   error
	flushErr error
}

func (f *fakeConn) PublishMsg(m *nats.Msg) error {
	if f.pubErr != nil {
		return f.pubErr
	}
	f.msgs = append(f.msgs, m)
	return nil
}

func (f *fakeConn) FlushWithContext(context.Context) error { return f.flushErr }

func TestNotify_PublishesJSONWithMsgID(t *testing.T) {
	conn := &fakeConn{}
	n := newNotifier(conn, "mantenimiento.")
	n.newID = func() string { return "fixed-id" }

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	err := n.Notify(context.Background(), actas.Event{
		Type: actas.EventCreated, ActaID: 42, ActaNum: "001", Entidad: "ACME", At: at,
	})
	require.NoError(t, err)
	require.Len(t, conn.msgs, 1)

	msg := conn.msgs[0]
	assert.Equal(t, "mantenimiento.acta.created", msg.Subject)
	assert.Equal(t, "fixed-id", msg.Header.Get(nats.MsgIdHdr))

	var got actas.Event
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, int64(42), got.ActaID)
	assert.True(t, at.Equal(got.At))
}

func TestNotify_DefaultPrefix(t *testing.T) {
	n := newNotifier(&fakeConn{}, "  ")
	assert.Equal(t, "actas.acta.deleted", n.Subject(actas.EventDeleted))
}

func TestNotify_Errors(t *testing.T) {
	boom := errors.New("desconectado")

	n := newNotifier(&fakeConn{pubErr: boom}, "actas")
	assert.ErrorIs(t, n.Notify(context.Background(), actas.Event{Type: actas.EventCreated}), boom)

	n = newNotifier(&fakeConn{flushErr: nats.ErrTimeout}, "actas")
	assert.ErrorIs(t, n.Notify(context.Background(), actas.Event{Type: actas.EventCreated}), nats.ErrTimeout)

	var nilN *Notifier
	assert.Error(t, nilN.Notify(context.Background(), actas.Event{}))
	nilN.Close()
}
