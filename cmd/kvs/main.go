// Command kvs is a local, serverless single-shot dispatcher: it opens the
// engine directly against a data directory, performs exactly one
// get/set/rm, and exits — no TCP server involved. The original Rust source
// (src/bin/kvs.rs) deliberately left this as an unimplemented stub; this
// repo completes it, since nothing in the store's Non-goals excludes a
// local CLI mode.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/iamNilotpal/ignitekv/pkg/errors"
	"github.com/iamNilotpal/ignitekv/pkg/logger"
	"github.com/iamNilotpal/ignitekv/pkg/options"

	"github.com/iamNilotpal/ignitekv/internal/engine"
	"github.com/iamNilotpal/ignitekv/internal/enginesel"
)

func main() {
	fs := flag.NewFlagSet("kvs", flag.ExitOnError)
	dataDir := fs.String("data-dir", options.DefaultDataDir, "directory holding the engine's data")
	debug := fs.BoolP("debug", "v", false, "enable debug-level logging")

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	args := fs.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: kvs [--data-dir DIR] get KEY | set KEY VALUE | rm KEY")
		os.Exit(1)
	}

	log := logger.New("kvs")
	if *debug {
		log = logger.NewDebug("kvs")
	}
	defer log.Sync()

	opts := options.NewDefaultOptions()
	opts.DataDir = *dataDir

	eng, err := enginesel.Open(enginesel.KVS, opts, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Server error: "+err.Error())
		os.Exit(1)
	}
	defer eng.Close()

	if err := dispatch(eng, args); err != nil {
		if errors.IsKeyNotFound(err) {
			fmt.Fprintln(os.Stdout, "Key not found")
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dispatch(eng engine.KvStoreEngine, args []string) error {
	switch args[0] {
	case "get":
		if len(args) != 2 {
			return fmt.Errorf("usage: get KEY")
		}
		value, ok, err := eng.Get(args[1])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Key not found")
			return nil
		}
		fmt.Println(value)
		return nil

	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: set KEY VALUE")
		}
		return eng.Set(args[1], args[2])

	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: rm KEY")
		}
		return eng.Remove(args[1])

	default:
		return fmt.Errorf("unrecognized subcommand %q", args[0])
	}
}
