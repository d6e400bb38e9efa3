package main

import (
	"context"
	"fmt"
	"io"

	"github.com/hexbee-net/errors"

	"github.com/hexbee-net/streamdec/base"
	"github.com/hexbee-net/streamdec/source"
	"github.com/hexbee-net/streamdec/stream"
)

// openSession opens location and starts a decoder session over it. The
// returned function releases both.
func openSession(ctx context.Context, e *env, df *decodeFlags, location string) (*stream.Session, func(), error) {
	opts, err := df.options(location)
	if err != nil {
		return nil, nil, err
	}

	r, err := source.Open(ctx, location, source.Options{})
	if err != nil {
		return nil, nil, err
	}

	s, err := stream.NewSession(r, opts)
	if err != nil {
		_ = r.Close()
		return nil, nil, err
	}

	e.log.Debug("opened input", "location", location, "size", r.Size(), "codec", codecName(s))

	return s, func() {
		_ = s.Close()
		_ = r.Close()
	}, nil
}

func codecName(s *stream.Session) string {
	if c := s.Codec(); c != nil {
		return c.Name()
	}

	return "none"
}

func probe(ctx context.Context, e *env, args []string) error {
	fs, df := newFlagSet("probe", e)
	if err := df.parse(fs, e, args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return errors.WithStack(errUsage)
	}

	s, done, err := openSession(ctx, e, df, fs.Arg(0))
	if err != nil {
		return err
	}
	defer done()

	ic, err := s.DecodeImageConfig(ctx)
	if err != nil {
		return err
	}

	printImageConfig(e.stdout, ic)

	for {
		fc, err := s.NextFrameConfig(ctx)
		if err == io.EOF {
			break
		}

		if err != nil {
			return err
		}

		printFrameConfig(e.stdout, fc)
	}

	st := s.Stats()
	e.log.Debug("probe done",
		"frames", st.FrameConfigs,
		"calls", st.Calls,
		"short_reads", st.ShortReads,
		"bytes", st.BytesRead)

	return nil
}

func printImageConfig(w io.Writer, ic base.ImageConfig) {
	fmt.Fprintf(w, "image %dx%d format=%s loops=%d opaque=%t first_frame=%d workbuf=%d\n",
		ic.Pixel.Width, ic.Pixel.Height, ic.Pixel.Format,
		ic.NumLoops, ic.FirstFrameIsOpaque, ic.FirstFrameIOPosition, ic.WorkbufLen.Max)
}

func printFrameConfig(w io.Writer, fc base.FrameConfig) {
	fmt.Fprintf(w, "frame %d bounds=%s at=%d duration=%s disposal=%d transparent=%d interlaced=%t\n",
		fc.Index, fc.Bounds, fc.IOPosition, fc.Duration, fc.Disposal, fc.TransparentIndex, fc.Interlaced)
}
