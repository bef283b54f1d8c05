// Command kvs-server listens on a TCP address and dispatches one decoded
// command per connection to the configured engine, per the wire protocol
// in internal/wire.
package main

import (
	"net"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/iamNilotpal/ignitekv/internal/engine"
	"github.com/iamNilotpal/ignitekv/internal/enginesel"
	"github.com/iamNilotpal/ignitekv/internal/wire"
	"github.com/iamNilotpal/ignitekv/pkg/logger"
	"github.com/iamNilotpal/ignitekv/pkg/options"
)

func main() {
	fs := flag.NewFlagSet("kvs-server", flag.ExitOnError)

	addr := fs.String("addr", "127.0.0.1:4000", "IP:PORT to listen on")
	engineName := fs.String("engine", "kvs", "storage engine to use: kvs or sled")
	dataDir := fs.String("data-dir", options.DefaultDataDir, "directory holding the engine's data")
	debug := fs.BoolP("debug", "v", false, "enable debug-level logging")

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	log := logger.New("kvs-server")
	if *debug {
		log = logger.NewDebug("kvs-server")
	}
	defer log.Sync()

	opts := options.NewDefaultOptions()
	opts.DataDir = *dataDir

	eng, err := enginesel.Open(enginesel.Name(*engineName), opts, log)
	if err != nil {
		log.Errorw("failed to open engine", "error", err)
		os.Exit(1)
	}
	defer eng.Close()

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Errorw("failed to listen", "addr", *addr, "error", err)
		os.Exit(1)
	}
	defer listener.Close()

	log.Infow("kvs-server listening", "addr", *addr, "engine", *engineName, "dataDir", *dataDir)

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Errorw("accept failed", "error", err)
			continue
		}

		go serve(conn, eng, log)
	}
}

func serve(conn net.Conn, eng engine.KvStoreEngine, log *zap.SugaredLogger) {
	defer conn.Close()

	if err := wire.Handle(conn, conn, eng); err != nil {
		log.Warnw("connection handling failed", "remote", conn.RemoteAddr(), "error", err)
	}
}
