package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hexbee-net/errors"

	"github.com/hexbee-net/streamdec/base"
	httpsource "github.com/hexbee-net/streamdec/source/http"
	"github.com/hexbee-net/streamdec/stream"
)

const maxUploadMemory = 8 << 20

type frameSummary struct {
	Index      uint64 `json:"index"`
	Bounds     string `json:"bounds"`
	DurationMS int64  `json:"duration_ms"`
}

type decodeSummary struct {
	Width     uint32         `json:"width"`
	Height    uint32         `json:"height"`
	Loops     uint32         `json:"loops"`
	Opaque    bool           `json:"opaque"`
	Frames    []frameSummary `json:"frames"`
	BytesRead uint64         `json:"bytes_read"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status,omitempty"`
}

// decodeHandler decodes the "image" file of a multipart upload under the
// session allocation ceiling.
type decodeHandler struct {
	opts stream.Options
	log  *slog.Logger
}

func (h *decodeHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})

		return
	}

	if err := req.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	defer req.MultipartForm.RemoveAll()

	// The upload is opened once, by the source reader.
	uploads := req.MultipartForm.File["image"]
	if len(uploads) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing image upload"})
		return
	}

	header := uploads[0]

	r, err := httpsource.NewReader(header)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	defer r.Close()

	var frames []frameSummary

	ic, stats, err := stream.DecodeAll(req.Context(), r, h.opts, func(f stream.Frame) error {
		frames = append(frames, frameSummary{
			Index:      f.Config.Index,
			Bounds:     f.Config.Bounds.String(),
			DurationMS: f.Config.Duration.Milliseconds(),
		})

		return nil
	})

	if err != nil {
		resp := errorResponse{Error: err.Error()}
		if st, ok := base.StatusOf(err); ok {
			resp.Status = st.String()
		}

		h.log.Info("upload rejected", "file", header.Filename, "size", header.Size, "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, resp)

		return
	}

	h.log.Debug("upload decoded", "file", header.Filename, "frames", stats.Frames, "calls", stats.Calls)

	writeJSON(w, http.StatusOK, decodeSummary{
		Width:     ic.Pixel.Width,
		Height:    ic.Pixel.Height,
		Loops:     ic.NumLoops,
		Opaque:    ic.FirstFrameIsOpaque,
		Frames:    frames,
		BytesRead: stats.BytesRead,
	})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func serve(ctx context.Context, e *env, args []string) error {
	fs, df := newFlagSet("serve", e)
	addr := fs.String("addr", "127.0.0.1:8080", "listen address")

	if err := df.parse(fs, e, args); err != nil {
		return err
	}

	if fs.NArg() != 0 {
		return errors.WithStack(errUsage)
	}

	opts, err := df.options("")
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/decode", &decodeHandler{opts: opts, log: e.log})

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)

	go func() {
		errc <- srv.ListenAndServe()
	}()

	e.log.Info("serving", "addr", *addr, "max_alloc", opts.MaxAlloc)

	select {
	case err := <-errc:
		return errors.Wrap(err, "server failed")

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "failed to shut down server")
		}

		return nil
	}
}
