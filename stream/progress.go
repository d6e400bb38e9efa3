package stream

import (
	"github.com/hexbee-net/errors"

	"github.com/hexbee-net/streamdec/base"
)

const (
	errNoProgress = errors.Error("no progress")
)

// ProgressMonitor checks that a decoder which suspends on a short read has
// consumed the input it was offered. A decoder that returns base.ShortRead
// twice from the same position with bytes still available would otherwise
// be called forever.
type ProgressMonitor struct {
	pos       uint64
	available int
	closed    bool

	calls      uint64
	shortReads uint64
}

// Begin records the state of src before a decoder call.
func (m *ProgressMonitor) Begin(src base.Reader) {
	m.pos = src.Position()
	m.available = src.Available()
	m.closed = src.Closed()
	m.calls++
}

// End checks the outcome of the call started by the last Begin.
func (m *ProgressMonitor) End(src base.Reader, st base.Status) error {
	if !st.Is(base.ShortRead) {
		return nil
	}

	m.shortReads++

	consumed := src.Position() - m.pos
	if consumed > 0 {
		return nil
	}

	if m.available == 0 && !m.closed {
		return nil
	}

	return errors.WithFields(
		errors.WithStack(errNoProgress),
		errors.Fields{
			"position":  m.pos,
			"available": m.available,
			"closed":    m.closed,
		})
}

// Calls returns the number of decoder calls observed.
func (m *ProgressMonitor) Calls() uint64 { return m.calls }

// ShortReads returns the number of calls that suspended on a short read.
func (m *ProgressMonitor) ShortReads() uint64 { return m.shortReads }
