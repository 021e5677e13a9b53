package infer

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/equipo13/navauto_client/internal/config"
	"github.com/equipo13/navauto_client/internal/vision"
)

// Remote talks to the model-server sidecar over a plain TCP connection,
// one request and one reply per inference. The connection is dialed on
// first use and redialed after any failure.
type Remote struct {
	addr    string
	timeout time.Duration

	lock   sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
}

func NewRemote(cfg config.InferConfig) *Remote {
	return &Remote{
		addr:    cfg.Server,
		timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
	}
}

func (r *Remote) Predict(ctx context.Context, tensor []byte) (float64, error) {
	request := PredictRequestMessage{
		Width:    vision.OutWidth,
		Height:   vision.OutHeight,
		Channels: vision.Channels,
		Pixels:   tensor,
	}
	data, err := request.MarshalBinary()
	if err != nil {
		return 0, fmt.Errorf("failed encoding predict request: %w", err)
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if err := r.ensureConn(ctx); err != nil {
		return 0, err
	}

	deadline := time.Now().Add(r.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := r.conn.SetDeadline(deadline); err != nil {
		r.dropConn()
		return 0, fmt.Errorf("failed setting model server deadline: %w", err)
	}

	if _, err := r.conn.Write(data); err != nil {
		r.dropConn()
		return 0, fmt.Errorf("failed sending predict request: %w", err)
	}

	reply, err := readReply(r.reader)
	if err != nil {
		r.dropConn()
		return 0, fmt.Errorf("failed reading steering reply: %w", err)
	}
	return reply.Angle, nil
}

func (r *Remote) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn = nil
	r.reader = nil
	return err
}

func (r *Remote) ensureConn(ctx context.Context) error {
	if r.conn != nil {
		return nil
	}

	dialer := net.Dialer{Timeout: r.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", r.addr)
	if err != nil {
		return fmt.Errorf("failed connecting to model server %s: %w", r.addr, err)
	}
	r.conn = conn
	r.reader = bufio.NewReader(conn)
	return nil
}

func (r *Remote) dropConn() {
	if r.conn != nil {
		r.conn.Close()
	}
	r.conn = nil
	r.reader = nil
}
