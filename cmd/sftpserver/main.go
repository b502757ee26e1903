// Command sftpserver is a small wrapper around the sftpserver engine
// that lets it be used as an ssh subsystem (stdin/stdout) or, with
// -L, as a standalone listener — generalizing the teacher's
// server_standalone/main.go (ssh-subsystem only) with the daemon/host
// /port/address-family surface from original_source/sftpserver.c's
// getopt table, which the spec's distillation dropped.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/xqyjlj/sftpserver"
	"github.com/xqyjlj/sftpserver/handler"
	"github.com/xqyjlj/sftpserver/internal/log"
	"github.com/xqyjlj/sftpserver/wire"
)

func main() {
	var (
		readOnly       bool
		debugStderr    bool
		levelName      string
		startDirectory string
		chrootPath     string
		user           string
		host           string
		listenPort     string
		daemonize      bool
		ipv4Only       bool
		ipv6Only       bool
		localEncoding  string
		workerCount    int
	)

	flag.BoolVar(&readOnly, "R", false, "read-only server")
	flag.BoolVar(&debugStderr, "e", false, "log to stderr")
	flag.StringVar(&levelName, "l", "none", "log level: none|error|info|debug")
	flag.StringVar(&startDirectory, "d", "", "start directory for relative paths (accepted and ignored)")
	flag.StringVar(&chrootPath, "r", "", "chroot PATH (accepted and ignored; no chroot is performed)")
	flag.StringVar(&user, "u", "", "USER to switch to (accepted and ignored; the process keeps its user)")
	flag.StringVar(&host, "H", "", "address to bind when -L is given (default: all interfaces)")
	flag.StringVar(&listenPort, "L", "", "listen on PORT instead of serving stdin/stdout")
	flag.BoolVar(&daemonize, "b", false, "background flag (requires -L; the process stays in the foreground)")
	flag.BoolVar(&ipv4Only, "4", false, "force IPv4 when listening")
	flag.BoolVar(&ipv6Only, "6", false, "force IPv6 when listening")
	flag.StringVar(&localEncoding, "local-encoding", "", "local filename encoding (default: UTF-8, no conversion)")
	flag.IntVar(&workerCount, "workers", 0, "worker pool size (default: workerpool.DefaultWorkerCount)")
	flag.Parse()

	level := log.LevelSilent
	if debugStderr {
		level = log.ParseLevel(levelName)
	}
	logger := log.NewStderr(level)

	if daemonize && listenPort == "" {
		fmt.Fprintln(os.Stderr, "sftpserver: -b requires -L")
		os.Exit(1)
	}

	reg, ext := buildRegistries(readOnly, startDirectory, chrootPath, user)

	opts := []sftpserver.Option{sftpserver.WithLogger(logger)}
	if localEncoding != "" {
		opts = append(opts, sftpserver.WithLocalEncoding(localEncoding))
	}
	if workerCount > 0 {
		opts = append(opts, sftpserver.WithWorkerCount(workerCount))
	}

	if listenPort == "" {
		srv := sftpserver.NewServer(stdioConn{}, reg, ext, true, opts...)
		if err := srv.Serve(); err != nil {
			logger.Errorf("sftp server completed with error: %v", err)
			os.Exit(1)
		}
		return
	}

	if err := listenAndServe(host, listenPort, ipv4Only, ipv6Only, reg, ext, logger, opts); err != nil {
		logger.Errorf("listener failed: %v", err)
		os.Exit(1)
	}
}

// buildRegistries constructs the command-type and named-extension
// registries this binary serves. Concrete filesystem command handlers
// are out of this engine's scope (spec.md §6); until one is wired in,
// every route reports SSH_FX_OP_UNSUPPORTED via handler.Fallback,
// which still lets the binary fully negotiate a version and exercise
// framing, the gate, and the worker pool end to end.
func buildRegistries(readOnly bool, startDirectory, chrootPath, user string) (handler.Registry, handler.ExtendedRegistry) {
	_ = readOnly
	_ = startDirectory
	_ = chrootPath
	_ = user

	reg := handler.Fallback(
		wire.PacketTypeOpen, wire.PacketTypeClose, wire.PacketTypeRead, wire.PacketTypeWrite,
		wire.PacketTypeLstat, wire.PacketTypeFstat, wire.PacketTypeSetstat, wire.PacketTypeFsetstat,
		wire.PacketTypeOpendir, wire.PacketTypeReaddir, wire.PacketTypeRemove, wire.PacketTypeMkdir,
		wire.PacketTypeRmdir, wire.PacketTypeRealpath, wire.PacketTypeStat, wire.PacketTypeRename,
		wire.PacketTypeReadlink, wire.PacketTypeSymlink, wire.PacketTypeLink,
		wire.PacketTypeBlock, wire.PacketTypeUnblock,
	)

	ext := handler.ExtendedRegistry{}
	return reg, ext
}

func listenAndServe(host, port string, ipv4Only, ipv6Only bool, reg handler.Registry, ext handler.ExtendedRegistry, logger *log.Logger, opts []sftpserver.Option) error {
	network := "tcp"
	switch {
	case ipv4Only:
		network = "tcp4"
	case ipv6Only:
		network = "tcp6"
	}

	ln, err := net.Listen(network, net.JoinHostPort(host, port))
	if err != nil {
		return err
	}
	defer ln.Close()

	logger.Infof("listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go func() {
			defer conn.Close()
			srv := sftpserver.NewServer(conn, reg, ext, true, opts...)
			if err := srv.Serve(); err != nil {
				logger.Errorf("connection from %s: %v", conn.RemoteAddr(), err)
			}
		}()
	}
}

// stdioConn adapts os.Stdin/os.Stdout to the io.ReadWriter the engine
// expects, matching the teacher's subsystem-mode wiring in
// server_standalone/main.go (sftp.NewServer(os.Stdin, os.Stdout, ...)).
type stdioConn struct{}

func (stdioConn) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioConn) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
