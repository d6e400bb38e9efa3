package gif

import (
	"github.com/hexbee-net/streamdec/base"
)

// DecodeImageConfig decodes the container header up to the first frame's
// descriptor. It may be called exactly once per session; dst may be nil.
func (d *Decoder) DecodeImageConfig(dst *base.ImageConfig, src base.Reader) base.Status {
	if st := d.enter(stageImageConfig); !st.IsOK() {
		return st
	}

	if !src.Valid() {
		d.imageConfigEnded = true
		return d.leave(stageImageConfig, base.ErrBadArgument.WithMessage("nil reader"))
	}

	st := d.decodeImageConfig(src)
	if st.IsOK() && dst != nil {
		*dst = d.imageConfig
	}

	return d.leave(stageImageConfig, st)
}

func (d *Decoder) decodeImageConfig(src base.Reader) base.Status {
	st := d.run(src, func() bool {
		return d.state == stFrameReady || d.state == stTrailer
	})
	if st.IsSuspension() {
		return st
	}

	d.imageConfigEnded = true

	if st.IsError() {
		return st
	}

	ic := base.ImageConfig{
		Pixel: base.PixelConfig{
			Format: base.PixelFormatIndexedBGRANonPremul,
			Width:  d.width,
			Height: d.height,
		},
		FirstFrameIOPosition: src.Position(),
		NumLoops:             d.numLoops,
	}

	if d.state == stFrameReady {
		ic.FirstFrameIOPosition = d.pending.IOPosition
		ic.FirstFrameIsOpaque = d.pending.TransparentIndex < 0 && d.pending.Bounds == ic.Pixel.Bounds()
	}

	n := uint64(d.width) * uint64(d.height)
	ic.WorkbufLen = base.RangeU64{Min: n, Max: n}

	d.imageConfig = ic

	return base.OK
}
