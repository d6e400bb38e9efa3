package main

import (
	"context"
	"io"

	"github.com/hexbee-net/errors"

	"github.com/hexbee-net/streamdec/base"
	"github.com/hexbee-net/streamdec/compression"
	"github.com/hexbee-net/streamdec/source"
	"github.com/hexbee-net/streamdec/stream"
)

// dump writes, for every frame, the 1024 byte BGRA palette followed by the
// palette indexes inside the frame bounds, row by row. A sink location whose
// extension names a codec is compressed with it.
func dump(ctx context.Context, e *env, args []string) error {
	fs, df := newFlagSet("dump", e)
	out := fs.String("out", "", "sink location")

	if err := df.parse(fs, e, args); err != nil {
		return err
	}

	if fs.NArg() != 1 || *out == "" {
		return errors.WithStack(errUsage)
	}

	s, done, err := openSession(ctx, e, df, fs.Arg(0))
	if err != nil {
		return err
	}
	defer done()

	sink, err := source.Create(ctx, *out, source.Options{})
	if err != nil {
		return err
	}

	var (
		w     io.Writer = sink
		codec io.WriteCloser
	)

	if c := compression.ForPath(*out); c != nil {
		if codec, err = c.NewWriter(sink); err != nil {
			_ = sink.Close()
			return err
		}

		w = codec
	}

	written, err := dumpFrames(ctx, e, s, w)
	if err != nil {
		_ = sink.Close()
		return err
	}

	if codec != nil {
		if err := codec.Close(); err != nil {
			_ = sink.Close()
			return errors.Wrap(err, "failed to flush compressed sink")
		}
	}

	if err := sink.Close(); err != nil {
		return errors.Wrap(err, "failed to close sink")
	}

	e.log.Info("dump done", "out", *out, "frames", s.Stats().Frames, "bytes", written)

	return nil
}

func dumpFrames(ctx context.Context, e *env, s *stream.Session, w io.Writer) (int64, error) {
	var (
		written int64
		pix     []byte
	)

	for {
		f, err := s.NextFrame(ctx)
		if err == io.EOF {
			return written, nil
		}

		if err != nil {
			return written, err
		}

		b := f.Config.Bounds
		if need := int(b.Width() * b.Height()); cap(pix) < need {
			pix = make([]byte, need)
		} else {
			pix = pix[:need]
		}

		f.Pixels.CopyRect(pix, b)

		for _, p := range [][]byte{f.Pixels.Palette(), pix} {
			n, err := w.Write(p)
			written += int64(n)

			if err != nil {
				return written, errors.Wrap(err, "failed to write frame")
			}
		}

		e.log.Debug("frame dumped", "index", f.Config.Index, "bounds", f.Config.Bounds.String(), "bytes", base.PaletteLen+len(pix))
	}
}
