package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/export"
)

var errBadQuery = errors.New("server: bad query parameter")

// handleRender serves GET /render.
//
// Query parameters mirror the JSON fields of fractal.RenderRequest, plus
// format (png, jpg, bmp, tiff), caption (bool) and supersample (1..4).
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req, err := requestFromQuery(q)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	v, f, p, err := s.resolve(req)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	format := export.PNG
	if name := q.Get("format"); name != "" {
		if format, err = export.ParseFormat(name); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	var opts export.Options
	if opts.Caption, err = boolParam(q, "caption"); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if opts.Supersample, err = intParam(q, "supersample"); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if v.Pixels()*max(opts.Supersample, 1)*max(opts.Supersample, 1) > s.maxPixels {
		http.Error(w, ErrTooLarge.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	img, err := export.Render(r.Context(), s.strategy, v, f, p, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.log.Debug("server: client went away", "path", r.URL.Path)
			return
		}
		s.log.Warn("server: render failed", "error", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	s.renders.Add(1)

	var buf bytes.Buffer
	if err := export.Encode(&buf, img, format, 0); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

// requestFromQuery builds a RenderRequest from URL parameters named like
// its JSON fields.
func requestFromQuery(q url.Values) (fractal.RenderRequest, error) {
	var (
		req fractal.RenderRequest
		err error
	)
	req.Fractal = q.Get("fractal")
	req.Palette = q.Get("palette")
	req.Julia = q.Get("julia")

	if req.Width, err = intParam(q, "width"); err != nil {
		return req, err
	}
	if req.Height, err = intParam(q, "height"); err != nil {
		return req, err
	}
	iter, err := intParam(q, "max_iterations")
	if err != nil {
		return req, err
	}
	if iter < 0 {
		return req, fmt.Errorf("%w: max_iterations=%d", errBadQuery, iter)
	}
	req.MaxIterations = uint32(iter)

	if z, err := floatParam(q, "zoom"); err != nil {
		return req, err
	} else if z != nil {
		req.Zoom = *z
	}
	if pw, err := floatParam(q, "power"); err != nil {
		return req, err
	} else if pw != nil {
		req.Power = *pw
	}

	for name, dst := range map[string]**float64{
		"center_re": &req.CenterRe,
		"center_im": &req.CenterIm,
		"c_re":      &req.CRe,
		"c_im":      &req.CIm,
		"p":         &req.P,
	} {
		if *dst, err = floatParam(q, name); err != nil {
			return req, err
		}
	}
	return req, nil
}

func intParam(q url.Values, name string) (int, error) {
	s := q.Get(name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", errBadQuery, name, s)
	}
	return n, nil
}

func floatParam(q url.Values, name string) (*float64, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", errBadQuery, name, s)
	}
	return &f, nil
}

func boolParam(q url.Values, name string) (bool, error) {
	s := q.Get(name)
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", errBadQuery, name, s)
	}
	return b, nil
}
