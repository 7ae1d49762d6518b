package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tliron/commonlog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/dhamidi/ahi/suggest"
)

var log = commonlog.GetLogger("ahi.ipc")

// MaxInputLength is the longest input a request may carry, in bytes.
const MaxInputLength = 64 << 10

// Options tune request handling.
type Options struct {
	// MaxResults caps the suggestions per response and is the default
	// limit of requests without one. Zero means no cap.
	MaxResults int

	// Timeout bounds one request. Zero means no bound.
	Timeout time.Duration
}

// Server answers completion requests read from r on w.
type Server struct {
	suggester *suggest.Suggester
	options   Options

	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
}

// NewServer returns a server for s reading requests from r.
func NewServer(s *suggest.Suggester, r io.Reader, w io.Writer, options Options) *Server {
	return &Server{
		suggester: s,
		options:   options,
		decoder:   msgpack.NewDecoder(r),
		encoder:   msgpack.NewEncoder(w),
	}
}

// Serve handles requests until the input ends or ctx is done. A request
// that cannot be decoded ends the stream, since the framing is lost.
func (s *Server) Serve(ctx context.Context) error {
	log.Debug("starting server")

	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var req CompletionRequest
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("decoding request: %v", err)
			s.sendError("", fmt.Sprintf("invalid request: %v", err), 400)
			return fmt.Errorf("decode request: %w", err)
		}

		if err := s.handle(ctx, req); err != nil {
			return err
		}
	}
}

// handle answers one request. Only write errors are returned.
func (s *Server) handle(ctx context.Context, req CompletionRequest) error {
	switch {
	case req.ID == "":
		return s.sendError(req.ID, "missing id", 400)
	case len(req.Input) > MaxInputLength:
		return s.sendError(req.ID, fmt.Sprintf("input exceeds %d bytes", MaxInputLength), 413)
	case req.Limit < 0:
		return s.sendError(req.ID, "negative limit", 400)
	}

	limit := req.Limit
	if n := s.options.MaxResults; n > 0 && (limit == 0 || limit > n) {
		limit = n
	}

	if s.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.options.Timeout)
		defer cancel()
	}

	start := time.Now()
	suggestions, err := s.suggester.SuggestContext(ctx, req.Input)
	elapsed := time.Since(start)
	if err != nil {
		status := 500
		if errors.Is(err, context.DeadlineExceeded) {
			status = 504
		}
		log.Warningf("request %s: %v", req.ID, err)
		return s.sendError(req.ID, err.Error(), status)
	}
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	log.Debugf("request %s: %d suggestions in %s", req.ID, len(suggestions), elapsed)
	return s.send(CompletionResponse{
		ID:          req.ID,
		Partial:     s.suggester.Partial(req.Input),
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("encoding response: %v", err)
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, status int) error {
	return s.send(ErrorResponse{ID: id, Error: message, Status: status})
}
