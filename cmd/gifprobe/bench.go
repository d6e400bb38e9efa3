package main

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/hexbee-net/errors"

	"github.com/hexbee-net/streamdec/source"
	"github.com/hexbee-net/streamdec/stream"
)

// bench loads the input once and decodes it from memory n times.
func bench(ctx context.Context, e *env, args []string) error {
	fs, df := newFlagSet("bench", e)
	n := fs.Int("n", 10, "number of decoding passes")

	if err := df.parse(fs, e, args); err != nil {
		return err
	}

	if fs.NArg() != 1 || *n < 1 {
		return errors.WithStack(errUsage)
	}

	location := fs.Arg(0)

	opts, err := df.options(location)
	if err != nil {
		return err
	}

	r, err := source.Open(ctx, location, source.Options{})
	if err != nil {
		return err
	}

	data, err := ioutil.ReadAll(r)
	_ = r.Close()

	if err != nil {
		return errors.Wrap(err, "failed to load input")
	}

	var (
		total time.Duration
		last  stream.Stats
	)

	for i := 0; i < *n; i++ {
		start := time.Now()

		_, stats, err := stream.DecodeAll(ctx, bytes.NewReader(data), opts, nil)
		if err != nil {
			return err
		}

		elapsed := time.Since(start)
		total += elapsed
		last = stats

		e.log.Debug("pass done", "pass", i, "elapsed", elapsed, "calls", stats.Calls, "short_reads", stats.ShortReads)
	}

	perPass := total / time.Duration(*n)
	mbps := float64(len(data)) * float64(*n) / total.Seconds() / (1 << 20)

	fmt.Fprintf(e.stdout, "bench passes=%d bytes=%d frames=%d per_pass=%s throughput=%.2fMiB/s calls=%d short_reads=%d\n",
		*n, len(data), last.Frames, perPass, mbps, last.Calls, last.ShortReads)

	return nil
}
