package gif

import (
	"github.com/hexbee-net/streamdec/base"
)

// DecodeFrameConfig decodes the next frame's metadata. If the previous
// frame's payload was not decoded, it is skipped. It returns base.EndOfData
// once the container holds no more frames; dst may be nil.
func (d *Decoder) DecodeFrameConfig(dst *base.FrameConfig, src base.Reader) base.Status {
	if st := d.enter(stageFrameConfig); !st.IsOK() {
		return st
	}

	if !src.Valid() {
		return d.leave(stageFrameConfig, base.ErrBadArgument.WithMessage("nil reader"))
	}

	return d.leave(stageFrameConfig, d.decodeFrameConfig(dst, src))
}

func (d *Decoder) decodeFrameConfig(dst *base.FrameConfig, src base.Reader) base.Status {
	if !d.imageConfigEnded {
		if st := d.decodeImageConfig(src); !st.IsOK() {
			return st
		}
	}

	if d.state.inPayload() {
		d.skipping = true
	}

	st := d.run(src, func() bool {
		return d.state == stFrameReady || d.state == stTrailer
	})
	if !st.IsOK() {
		return st
	}

	if d.state == stTrailer {
		return base.EndOfData
	}

	d.pending.Index = d.numFrameConfigs
	d.current = d.pending

	if dst != nil {
		*dst = d.current
	}

	d.numFrameConfigs++
	d.state = stLocalPalette
	d.skipping = false
	d.lctN = 0

	return base.OK
}
