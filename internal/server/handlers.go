package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/matzehuels/pyramidr/pkg/buildinfo"
	perrors "github.com/matzehuels/pyramidr/pkg/errors"
	"github.com/matzehuels/pyramidr/pkg/pipeline"
	"github.com/matzehuels/pyramidr/pkg/render"
)

// Response headers describing the produced atlas.
const (
	HeaderUtilization = "X-Utilization"
	HeaderCanvasSize  = "X-Canvas-Size"
	HeaderTiles       = "X-Tiles"
	HeaderCache       = "X-Cache"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// handleLayout packs dimensions given as a JSON body. Fields left out of the
// body keep the server defaults.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts := s.cfg.Defaults
	body := http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		if statusFor(err) == http.StatusRequestEntityTooLarge {
			s.writeError(w, r, err)
			return
		}
		s.writeError(w, r, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	opts.Logger = s.logger

	l, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, hit)
	writeJSON(w, http.StatusOK, l)
}

// handleAtlas renders the image in the request body. Options come from the
// query string.
func (s *Server) handleAtlas(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromQuery(r.URL.Query(), s.cfg.Defaults)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.logger

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	src, err := pipeline.ParseSourceLimited(data, s.cfg.MaxSourcePixels)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), src, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", render.ContentType(res.Format))
	h.Set("Content-Length", strconv.Itoa(len(res.Artifact)))
	h.Set(HeaderUtilization, strconv.FormatFloat(res.Layout.Utilization, 'f', 6, 64))
	h.Set(HeaderCanvasSize, fmt.Sprintf("%dx%d", res.Layout.Canvas.Width, res.Layout.Canvas.Height))
	h.Set(HeaderTiles, strconv.Itoa(len(res.Layout.Tiles)))
	setCacheHeader(w, res.CacheInfo.RenderHit)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifact)
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set(HeaderCache, "HIT")
	} else {
		w.Header().Set(HeaderCache, "MISS")
	}
}

// optionsFromQuery overlays query parameters on defaults.
func optionsFromQuery(q url.Values, defaults pipeline.Options) (pipeline.Options, error) {
	opts := defaults
	ints := []struct {
		name string
		dst  *int
	}{
		{"min_dim", &opts.MinDim},
		{"padding", &opts.Padding},
		{"alignment", &opts.Alignment},
		{"border", &opts.Border},
		{"quality", &opts.JPEGQuality},
	}
	for _, p := range ints {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, perrors.New(perrors.ErrCodeInvalidParameter, "%s must be an integer, got %q", p.name, v)
		}
		*p.dst = n
	}
	if v := q.Get("ratio"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, perrors.New(perrors.ErrCodeInvalidParameter, "ratio must be a number, got %q", v)
		}
		opts.Ratio = f
	}
	if v := q.Get("filter"); v != "" {
		opts.Filter = v
	}
	if v := q.Get("background"); v != "" {
		opts.Background = v
	}
	if v := q.Get("format"); v != "" {
		opts.Format = v
	}
	opts.Refresh = q.Get("refresh") == "true"
	if v := q.Get("fast_png"); v != "" {
		opts.FastPNG = v == "true"
	}
	return opts, nil
}
