// Package stream drives a resumable GIF decoder from an io.Reader. It owns
// the input buffer, refills and compacts it on short reads, allocates the
// pixel and work buffers under a ceiling, and turns decoder statuses into
// errors.
package stream

import (
	"context"
	"io"
	"io/ioutil"

	"github.com/hexbee-net/errors"

	"github.com/hexbee-net/streamdec/base"
	"github.com/hexbee-net/streamdec/compression"
	"github.com/hexbee-net/streamdec/gif"
)

const (
	errImageTooLarge     = errors.Error("image too large")
	errTooManyIterations = errors.Error("too many iterations")
)

// Frame is a decoded frame. Pixels belongs to the Session and is overwritten
// by the next call to NextFrame.
type Frame struct {
	Config base.FrameConfig
	Pixels *base.PixelBuffer
}

// Stats counts the work done by a Session.
type Stats struct {
	Calls        uint64
	ShortReads   uint64
	BytesRead    uint64
	Position     uint64
	FrameConfigs uint64
	Frames       uint64
}

// Session decodes one GIF stream. It is not safe for concurrent use.
type Session struct {
	opts  Options
	codec compression.Codec
	input io.ReadCloser
	in    filler

	buf     *base.IOBuffer
	dec     *gif.Decoder
	monitor ProgressMonitor

	configured bool
	ic         base.ImageConfig
	pix        base.PixelBuffer
	workbuf    []byte

	pending bool
	fc      base.FrameConfig
}

// NewSession prepares a session reading from r. Transport compression is
// removed according to opts.Codec.
func NewSession(r io.Reader, opts Options) (*Session, error) {
	opts = opts.withDefaults()

	s := &Session{opts: opts}

	switch {
	case opts.Codec != nil:
		rc, err := opts.Codec.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open compressed input")
		}

		s.input, s.codec = rc, opts.Codec

	case opts.Raw:
		s.input = ioutil.NopCloser(r)

	default:
		rc, c, err := compression.NewAutoReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open input")
		}

		s.input, s.codec = rc, c
	}

	buf, err := base.NewIOBuffer(opts.BufferSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to allocate input buffer")
	}

	dec, err := gif.NewDecoder()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create decoder")
	}

	s.buf = buf
	s.dec = dec
	s.in = filler{r: s.input, limit: opts.ReadLimit}

	return s, nil
}

// Codec returns the transport compression detected or configured for the
// input, nil for a plain stream.
func (s *Session) Codec() compression.Codec {
	return s.codec
}

func (s *Session) Stats() Stats {
	return Stats{
		Calls:        s.monitor.Calls(),
		ShortReads:   s.monitor.ShortReads(),
		BytesRead:    s.in.read,
		Position:     s.buf.ReaderPosition(),
		FrameConfigs: s.dec.NumDecodedFrameConfigs(),
		Frames:       s.dec.NumDecodedFrames(),
	}
}

// Close releases the input. It does not close the io.Reader given to
// NewSession.
func (s *Session) Close() error {
	return s.input.Close()
}

// DecodeImageConfig decodes the image configuration and allocates the
// buffers needed to decode frames. Later calls return the same
// configuration.
func (s *Session) DecodeImageConfig(ctx context.Context) (base.ImageConfig, error) {
	if s.configured {
		return s.ic, nil
	}

	var ic base.ImageConfig

	err := s.drive(ctx, "image config", func(src base.Reader) base.Status {
		return s.dec.DecodeImageConfig(&ic, src)
	})
	if err != nil {
		return base.ImageConfig{}, err
	}

	if err := s.allocate(&ic); err != nil {
		return base.ImageConfig{}, err
	}

	s.ic = ic
	s.configured = true

	return s.ic, nil
}

func (s *Session) allocate(ic *base.ImageConfig) error {
	pixLen := ic.PixbufLen()
	workLen := ic.WorkbufLen.Max

	if pixLen > s.opts.MaxAlloc || workLen > s.opts.MaxAlloc-pixLen {
		return errors.WithFields(
			errors.WithStack(errImageTooLarge),
			errors.Fields{
				"width":   ic.Pixel.Width,
				"height":  ic.Pixel.Height,
				"pixbuf":  pixLen,
				"workbuf": workLen,
				"limit":   s.opts.MaxAlloc,
			})
	}

	if st := s.pix.SetFromSlice(ic.Pixel, make([]byte, pixLen)); !st.IsOK() {
		return errors.Wrap(st, "failed to set up pixel buffer")
	}

	s.workbuf = make([]byte, workLen)

	return nil
}

// NextFrameConfig decodes the configuration of the next frame. It returns
// io.EOF once the stream has no frames left. Calling it again before
// NextFrame skips the payload of the pending frame.
func (s *Session) NextFrameConfig(ctx context.Context) (base.FrameConfig, error) {
	if _, err := s.DecodeImageConfig(ctx); err != nil {
		return base.FrameConfig{}, err
	}

	var fc base.FrameConfig

	err := s.drive(ctx, "frame config", func(src base.Reader) base.Status {
		return s.dec.DecodeFrameConfig(&fc, src)
	})
	if err != nil {
		return base.FrameConfig{}, err
	}

	s.fc = fc
	s.pending = true

	return fc, nil
}

// NextFrame decodes the next frame. It returns io.EOF once the stream has no
// frames left.
func (s *Session) NextFrame(ctx context.Context) (Frame, error) {
	if !s.pending {
		if _, err := s.NextFrameConfig(ctx); err != nil {
			return Frame{}, err
		}
	}

	err := s.drive(ctx, "frame", func(src base.Reader) base.Status {
		return s.dec.DecodeFrame(&s.pix, src, s.workbuf)
	})
	if err != nil {
		return Frame{}, err
	}

	s.pending = false

	return Frame{Config: s.fc, Pixels: &s.pix}, nil
}

// drive repeats call until it stops suspending on short reads, refilling
// the input buffer in between.
func (s *Session) drive(ctx context.Context, what string, call func(src base.Reader) base.Status) error {
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "decoding interrupted")
		}

		if s.opts.MaxIterations > 0 && i >= s.opts.MaxIterations {
			return errors.WithFields(
				errors.WithStack(errTooManyIterations),
				errors.Fields{
					"stage":      what,
					"iterations": i,
					"position":   s.buf.ReaderPosition(),
				})
		}

		src := s.buf.Reader()
		if s.opts.ReadLimit > 0 {
			src = src.WithLimit(s.opts.ReadLimit)
		}

		s.monitor.Begin(src)
		st := call(src)

		if err := s.monitor.End(src, st); err != nil {
			return errors.Wrapf(err, "failed to decode %s", what)
		}

		switch {
		case st.IsOK():
			return nil

		case st.Is(base.EndOfData):
			return io.EOF

		case st.Is(base.ShortRead):
			if s.buf.UnreadLen() > 0 {
				continue
			}

			if err := s.in.fill(s.buf); err != nil {
				return errors.Wrapf(err, "failed to read %s", what)
			}

		default:
			return errors.Wrapf(st, "failed to decode %s", what)
		}
	}
}

// DecodeAll decodes every frame of r, calling fn, when not nil, after each
// one.
func DecodeAll(ctx context.Context, r io.Reader, opts Options, fn func(Frame) error) (base.ImageConfig, Stats, error) {
	s, err := NewSession(r, opts)
	if err != nil {
		return base.ImageConfig{}, Stats{}, err
	}
	defer s.Close()

	ic, err := s.DecodeImageConfig(ctx)
	if err != nil {
		return base.ImageConfig{}, s.Stats(), err
	}

	for {
		f, err := s.NextFrame(ctx)
		if err == io.EOF {
			return ic, s.Stats(), nil
		}

		if err != nil {
			return ic, s.Stats(), err
		}

		if fn != nil {
			if err := fn(f); err != nil {
				return ic, s.Stats(), err
			}
		}
	}
}
