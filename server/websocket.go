package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/gogpu/fractal"
	"github.com/gogpu/fractal/export"
)

// maxRequestBytes bounds a single JSON request frame.
const maxRequestBytes = 64 << 10

// Frame announces the image that follows it on the websocket. A frame with
// Error set is not followed by an image.
type Frame struct {
	ID        uint64 `json:"id"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Fractal   string `json:"fractal,omitempty"`
	Palette   string `json:"palette,omitempty"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Error     string `json:"error,omitempty"`
}

// handleWebsocket runs one interactive session.
//
// The client sends fractal.RenderRequest values as JSON text messages. For
// every completed render the server writes a JSON Frame followed by the
// PNG image as a binary message. A request that arrives while a render is
// running cancels it; the cancelled render produces no output.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.originPatterns,
	})
	if err != nil {
		s.log.Warn("server: websocket accept", "error", err)
		return
	}
	c.SetReadLimit(maxRequestBytes)

	s.sessions.Add(1)
	defer s.sessions.Add(-1)

	ws := &wsSession{
		srv:     s,
		conn:    c,
		session: fractal.NewSession(s.strategy),
	}
	err = ws.serve(r.Context())

	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		s.log.Debug("server: websocket closed", "remote", r.RemoteAddr)
		_ = c.Close(websocket.StatusNormalClosure, "")
	default:
		s.log.Debug("server: websocket ended", "remote", r.RemoteAddr, "error", err)
		_ = c.Close(websocket.StatusInternalError, "session ended")
	}
}

type wsSession struct {
	srv     *Server
	conn    *websocket.Conn
	session *fractal.Session

	// latest is the sequence number of the newest request; older renders
	// that finish late are dropped.
	latest atomic.Uint64

	// writeMu keeps a Frame and its image adjacent on the wire. Writes use
	// the connection context: cancelling a write closes the socket.
	writeMu  sync.Mutex
	writeCtx context.Context
	wg       sync.WaitGroup
}

func (ws *wsSession) serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		ws.wg.Wait()
	}()
	ws.writeCtx = ctx

	// Cancelling the previous request before the next one starts means a
	// render goroutine that is scheduled late can never displace a newer
	// one.
	cancelPrev := context.CancelFunc(func() {})
	defer func() { cancelPrev() }()

	for {
		var req fractal.RenderRequest
		if err := wsjson.Read(ctx, ws.conn, &req); err != nil {
			return err
		}
		seq := ws.latest.Add(1)

		cancelPrev()
		var rctx context.Context
		rctx, cancelPrev = context.WithCancel(ctx)

		ws.wg.Add(1)
		go func() {
			defer ws.wg.Done()
			ws.render(rctx, seq, req)
		}()
	}
}

func (ws *wsSession) render(ctx context.Context, seq uint64, req fractal.RenderRequest) {
	log := ws.srv.log
	start := time.Now()

	v, f, p, err := ws.srv.resolve(req)
	if err == nil {
		var g *fractal.Grid
		g, err = ws.session.Render(ctx, v, f)
		if err == nil {
			var buf bytes.Buffer
			if err = export.Encode(&buf, fractal.Colorize(g, p), export.PNG, 0); err == nil {
				ws.send(seq, Frame{
					ID:        req.ID,
					Width:     v.Width,
					Height:    v.Height,
					Fractal:   f.Family().String(),
					Palette:   p.String(),
					ElapsedMS: time.Since(start).Milliseconds(),
				}, buf.Bytes())
				ws.srv.renders.Add(1)
				return
			}
		}
	}

	if errors.Is(err, context.Canceled) {
		log.Debug("server: render superseded", "id", req.ID)
		return
	}
	log.Warn("server: websocket render failed", "id", req.ID, "error", err)
	ws.send(seq, Frame{ID: req.ID, Error: err.Error()}, nil)
}

// send writes a frame and optional image unless a newer request has
// arrived since seq.
func (ws *wsSession) send(seq uint64, fr Frame, img []byte) {
	ws.writeMu.Lock()
	defer ws.writeMu.Unlock()

	if ws.latest.Load() != seq {
		return
	}
	if err := wsjson.Write(ws.writeCtx, ws.conn, fr); err != nil {
		return
	}
	if img != nil {
		_ = ws.conn.Write(ws.writeCtx, websocket.MessageBinary, img)
	}
}
