// Command kvs-client sends exactly one Get/Set/Remove command to a
// kvs-server and prints the response per the wire protocol's documented
// shapes.
package main

import (
	"fmt"
	"net"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/iamNilotpal/ignitekv/internal/record"
	"github.com/iamNilotpal/ignitekv/internal/wire"
	"github.com/iamNilotpal/ignitekv/pkg/logger"
)

func main() {
	fs := flag.NewFlagSet("kvs-client", flag.ExitOnError)
	addr := fs.String("addr", "127.0.0.1:4000", "server IP:PORT")
	debug := fs.BoolP("debug", "v", false, "enable debug-level logging")

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	args := fs.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: kvs-client [--addr IP:PORT] get KEY | set KEY VALUE | rm KEY")
		os.Exit(1)
	}

	log := logger.New("kvs-client")
	if *debug {
		log = logger.NewDebug("kvs-client")
	}
	defer log.Sync()

	cmd, err := parseCommand(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		log.Errorw("failed to connect", "addr", *addr, "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	body, err := send(conn, cmd)
	if err != nil {
		log.Errorw("request failed", "error", err)
		os.Exit(1)
	}

	isError, display := wire.ParseResponse(body)
	if isError {
		fmt.Fprintln(os.Stderr, "Server error: "+display)
		os.Exit(1)
	}

	if display != "" {
		fmt.Fprintln(os.Stdout, display)
	}
}

func parseCommand(args []string) (record.Command, error) {
	switch args[0] {
	case "get":
		if len(args) != 2 {
			return record.Command{}, fmt.Errorf("usage: get KEY")
		}
		return record.NewGet(args[1]), nil
	case "set":
		if len(args) != 3 {
			return record.Command{}, fmt.Errorf("usage: set KEY VALUE")
		}
		return record.NewSet(args[1], args[2]), nil
	case "rm":
		if len(args) != 2 {
			return record.Command{}, fmt.Errorf("usage: rm KEY")
		}
		return record.NewRemove(args[1]), nil
	default:
		return record.Command{}, fmt.Errorf("unrecognized subcommand %q", args[0])
	}
}

// send writes cmd and half-closes the write side so the server's decoder
// sees a clean end-of-stream, then reads the response to EOF.
func send(conn net.Conn, cmd record.Command) (string, error) {
	if err := record.Encode(conn, cmd); err != nil {
		return "", err
	}

	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.CloseWrite(); err != nil {
			return "", err
		}
	}

	buf := make([]byte, 0, 256)
	tmp := make([]byte, 4096)
	for {
		n, err := conn.Read(tmp)
		buf = append(buf, tmp[:n]...)
		if err != nil {
			break
		}
	}

	return string(buf), nil
}
