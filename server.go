// Package sftpserver wires the wire, proto, gate, workerpool, status,
// charset, and handler packages into one connection's server loop, per
// spec.md §2 and §5: one reader goroutine, a fixed worker pool created
// lazily after version negotiation, and a per-handle serialization gate
// that lets unrelated requests execute concurrently while preserving
// per-handle response order.
package sftpserver

import (
	"io"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/xqyjlj/sftpserver/allocator"
	"github.com/xqyjlj/sftpserver/charset"
	"github.com/xqyjlj/sftpserver/gate"
	"github.com/xqyjlj/sftpserver/handler"
	"github.com/xqyjlj/sftpserver/internal/log"
	"github.com/xqyjlj/sftpserver/proto"
	"github.com/xqyjlj/sftpserver/status"
	"github.com/xqyjlj/sftpserver/wire"
	"github.com/xqyjlj/sftpserver/workerpool"
)

// Server drives one SFTP connection's full lifecycle: framing, version
// negotiation, dispatch, and response delivery (spec.md §3 "Server
// state").
type Server struct {
	conn   *wire.Conn
	engine *proto.Engine
	gate   *gate.Gate[*proto.Job]
	arena  *allocator.Allocator
	log    *log.Logger

	factory       charset.Factory
	localEncoding string
	workerCount   int

	pool *workerpool.Pool
	seq  uint64
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithLogger sets the Logger used for connection-lifecycle messages.
// The default discards everything (spec.md's ambient-stack default).
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithCharsetFactory overrides the default charset.TextFactory.
func WithCharsetFactory(f charset.Factory) Option {
	return func(s *Server) { s.factory = f }
}

// WithLocalEncoding sets the local filename encoding negotiated for
// this connection's charset.Converter pair (spec.md §3, "a
// local-encoding name string"). The empty string means UTF-8, i.e. no
// conversion.
func WithLocalEncoding(name string) Option {
	return func(s *Server) { s.localEncoding = name }
}

// WithWorkerCount overrides workerpool.DefaultWorkerCount.
func WithWorkerCount(n int) Option {
	return func(s *Server) { s.workerCount = n }
}

// NewServer builds a Server around rwc, dispatching through reg and ext
// (spec.md §6: "command handlers... out-of-scope modules populate
// this"). reverseSymlinkCompiled selects the build-time choice of
// legacy v3 SYMLINK argument order (spec.md §9 Open Question).
func NewServer(rwc io.ReadWriter, reg handler.Registry, ext handler.ExtendedRegistry, reverseSymlinkCompiled bool, opts ...Option) *Server {
	s := &Server{
		conn:        wire.NewConn(rwc, rwc),
		engine:      proto.NewEngine(reg, ext, reverseSymlinkCompiled),
		gate:        gate.New[*proto.Job](),
		arena:       allocator.New(),
		log:         log.New(nil, log.LevelSilent),
		factory:     charset.TextFactory{},
		workerCount: workerpool.DefaultWorkerCount,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Serve runs the reader loop until the connection closes or a framing
// error occurs (spec.md §7 case 6). A clean peer-initiated close
// (io.EOF from ReadPacket) is reported as nil, matching the teacher's
// Serve() convention that a graceful shutdown isn't itself an error.
func (s *Server) Serve() error {
	defer s.shutdown()

	for {
		raw, err := s.conn.ReadPacket()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return errors.Wrap(err, "sftpserver: framing error")
		}

		job, err := proto.ParseHeader(raw)
		if err != nil {
			s.log.Errorf("malformed packet: %v", err)
			if werr := s.conn.WritePacket(wire.MarshalStatus(0, wire.StatusBadMessage, err.Error())); werr != nil {
				return errors.Wrap(werr, "sftpserver: write after bad message")
			}
			continue
		}

		if job.Type == wire.PacketTypeInit {
			if err := s.handleInit(job); err != nil {
				return err
			}
			continue
		}

		if err := s.dispatchJob(job); err != nil {
			return err
		}
	}
}

func (s *Server) shutdown() {
	if s.pool != nil {
		s.pool.Shutdown()
		s.pool = nil
		return
	}
	s.arena.Close()
}

// bodyAfterHeader returns a fresh decode cursor positioned just past the
// packet type (and, for non-INIT packets, the request id) — the same
// prefix proto.ParseHeader already consumed from its own local cursor.
func bodyAfterHeader(job *proto.Job) *wire.Buffer {
	buf := wire.NewBuffer(job.Raw)
	_, _ = buf.ConsumeUint8()
	if job.Type != wire.PacketTypeInit {
		_, _ = buf.ConsumeUint32()
	}
	return buf
}

func (s *Server) handleInit(job *proto.Job) error {
	res, err := s.engine.Negotiate(bodyAfterHeader(job))
	if werr := s.conn.WritePacket(res.Response); werr != nil {
		return errors.Wrap(werr, "sftpserver: write VERSION/STATUS response")
	}
	if err != nil {
		s.log.Errorf("negotiation failed: %v", err)
		return nil
	}
	if res.Table != nil && !res.DeferPool {
		s.ensurePool()
	}
	return nil
}

func (s *Server) ensurePool() {
	if s.pool != nil {
		return
	}
	pool, err := workerpool.New(s.workerCount, s.localEncoding, s.factory, s.arena)
	if err != nil {
		s.log.Errorf("worker pool construction failed, running inline: %v", err)
		return
	}
	s.pool = pool
}

func (s *Server) dispatchJob(job *proto.Job) error {
	handles, err := proto.ExtractHandles(job, bodyAfterHeader(job))
	if err != nil {
		return s.writeStatus(job.EffectiveID(), wire.StatusBadMessage, err)
	}
	job.Handles = handles
	job.Seq = atomic.AddUint64(&s.seq, 1)

	s.gate.Register(job, handles)

	run := func(w *workerpool.Worker) { s.runJob(job, w) }

	// spec.md §4.4/§4.6: no pool before INIT, and the single request
	// immediately following a v6 VERSION still runs inline.
	if s.pool != nil && !s.engine.PoolDeferred() {
		s.pool.Submit(run)
		return nil
	}

	run(&workerpool.Worker{Forward: charset.Identity, Reverse: charset.Identity})
	if s.engine.PoolDeferred() {
		s.engine.ClearPoolDeferred()
		s.ensurePool()
	}
	return nil
}

func (s *Server) runJob(job *proto.Job, w *workerpool.Worker) {
	s.gate.Wait(job, job.Handles)
	defer s.gate.Release(job, job.Handles)
	defer s.arena.ReleaseJob(uint32(job.Seq))

	table := s.engine.ActiveTable()
	w.Response.Reset(nil)

	ctx := &handler.Context{
		Type:     job.Type,
		ID:       job.EffectiveID(),
		Body:     bodyAfterHeader(job),
		Response: &w.Response,
		Forward:  w.Forward,
		Reverse:  w.Reverse,
		JobID:    uint32(job.Seq),
		Table:    table,
	}

	hstatus, herr, routeErr := s.engine.Dispatch(job, ctx)

	if routeErr != nil {
		_ = s.writeStatus(ctx.ID, routeStatus(routeErr), routeErr)
		return
	}

	if errors.Is(herr, handler.Responded) {
		if err := s.conn.WritePacket(w.Response.Bytes()); err != nil {
			s.log.Errorf("write response for request %d: %v", ctx.ID, err)
		}
		return
	}

	_ = s.writeStatus(ctx.ID, hstatus, herr)
}

// routeStatus maps a routing failure from Engine.Dispatch to its fixed
// STATUS code. Unlike a handler's own (status, error) result, a routing
// failure never carries an OS error to consult: an unknown command type
// is always SSH_FX_OP_UNSUPPORTED (spec.md §7 case 2) and a malformed
// SSH_FXP_EXTENDED name is always SSH_FX_BAD_MESSAGE (spec.md §7 case 1).
func routeStatus(routeErr error) wire.Status {
	if errors.Is(routeErr, proto.ErrBadMessage) {
		return wire.StatusBadMessage
	}
	return wire.StatusOPUnsupported
}

func (s *Server) writeStatus(id uint32, code wire.Status, err error) error {
	payload := status.Encode(id, code, "", err, s.engine.ActiveTable())
	if werr := s.conn.WritePacket(payload); werr != nil {
		return errors.Wrap(werr, "sftpserver: write STATUS response")
	}
	return nil
}
