// Command gifprobe drives the resumable GIF decoder over files and object
// stores.
//
//	gifprobe probe [flags] <location>         print the image and frame configurations
//	gifprobe dump  [flags] -out <location> <location>
//	                                          write palettes and frame indexes to a sink
//	gifprobe bench [flags] <location>         time repeated decodes
//	gifprobe serve [flags]                    decode uploads over HTTP
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hexbee-net/errors"

	"github.com/hexbee-net/streamdec/compression"
	"github.com/hexbee-net/streamdec/stream"
)

const (
	errUsage = errors.Error("usage")
)

type env struct {
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger
}

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, e *env, args []string) error
}

var commands = []command{
	{"probe", "probe [flags] <location>", probe},
	{"dump", "dump [flags] -out <location> <location>", dump},
	{"bench", "bench [flags] <location>", bench},
	{"serve", "serve [flags]", serve},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}

	for _, c := range commands {
		if c.name != args[0] {
			continue
		}

		e := &env{stdout: stdout, stderr: stderr}

		err := c.run(ctx, e, args[1:])
		switch {
		case err == nil:
			return 0
		case errors.Cause(err) == errUsage:
			fmt.Fprintf(stderr, "usage: gifprobe %s\n", c.usage)
			return 2
		case errors.Cause(err) == flag.ErrHelp:
			return 0
		}

		if e.log == nil {
			e.log = newLogger(stderr, false)
		}

		e.log.Error("command failed", "command", c.name, "error", err)

		return 1
	}

	printUsage(stderr)

	return 2
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage:")

	for _, c := range commands {
		fmt.Fprintf(w, "  gifprobe %s\n", c.usage)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// decodeFlags are the session settings shared by every command.
type decodeFlags struct {
	bufferSize int
	readLimit  int
	maxAlloc   uint64
	codec      string
	raw        bool
	verbose    bool
}

func newFlagSet(name string, e *env) (*flag.FlagSet, *decodeFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)

	df := &decodeFlags{}
	def := stream.DefaultOptions()

	fs.IntVar(&df.bufferSize, "buffer", def.BufferSize, "input buffer size in bytes")
	fs.IntVar(&df.readLimit, "limit", 0, "maximum bytes per decoder call, 0 for no limit")
	fs.Uint64Var(&df.maxAlloc, "max-alloc", def.MaxAlloc, "largest pixel plus work buffer to allocate")
	fs.StringVar(&df.codec, "codec", "", "transport compression of the input (gzip, brotli, zstd, s2, lz4, snappy, none); sniffed when empty")
	fs.BoolVar(&df.raw, "raw", false, "do not sniff the input for transport compression")
	fs.BoolVar(&df.verbose, "v", false, "log debug details")

	return fs, df
}

// parse parses args and sets up the command logger.
func (df *decodeFlags) parse(fs *flag.FlagSet, e *env, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errors.WithStack(err)
		}

		return errors.WithStack(errUsage)
	}

	e.log = newLogger(e.stderr, df.verbose)

	return nil
}

// options maps the flags onto session options. location selects the codec
// by file extension when -codec is not given.
func (df *decodeFlags) options(location string) (stream.Options, error) {
	opts := stream.DefaultOptions()
	opts.BufferSize = df.bufferSize
	opts.ReadLimit = df.readLimit
	opts.MaxAlloc = df.maxAlloc
	opts.Raw = df.raw

	switch {
	case df.codec != "":
		c, err := compression.Lookup(df.codec)
		if err != nil {
			return stream.Options{}, err
		}

		opts.Codec = c
		opts.Raw = c == nil

	case !df.raw:
		opts.Codec = compression.ForPath(location)
	}

	return opts, nil
}
