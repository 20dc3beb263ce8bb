// Package serve implements a line-delimited JSON protocol for solving
// schematics from a long-running process.
package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"go.uber.org/zap"

	"github.com/praetorian-inc/schematic/pkg/solver"
	"github.com/praetorian-inc/schematic/pkg/types"
)

// Version is the server protocol version
const Version = "1.0.0"

// Server answers solve requests read from in, one JSON document per line.
type Server struct {
	core    *solver.Core
	encoder *json.Encoder
	decoder *json.Decoder
	logger  *zap.Logger
}

// NewServer creates a new streaming server
func NewServer(core *solver.Core, in io.Reader, out io.Writer) *Server {
	return &Server{
		core:    core,
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
		logger:  core.Logger().Named("serve"),
	}
}

// Run sends a ready message and then serves requests until in is exhausted,
// a close request arrives, or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.sendReady()

	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// requests decoded before the error still get answered
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(ctx, req) {
						return nil
					}
				default:
					if err == io.EOF {
						s.logger.Debug("input closed")
						return nil
					}
					s.sendError("decode", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(ctx, req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(ctx context.Context, req Request) bool {
	s.logger.Debug("request", zap.String("type", req.Type))

	switch req.Type {
	case "solve":
		s.handleSolve(ctx, req.Payload)
	case "solve_batch":
		s.handleSolveBatch(ctx, req.Payload)
	case "close":
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	data, _ := json.Marshal(ReadyData{Version: Version})
	s.send(Response{Success: true, Type: "ready", Data: data})
}

func (s *Server) handleSolve(ctx context.Context, payload json.RawMessage) {
	var p SolvePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("solve", err.Error())
		return
	}

	result, err := s.core.Solve(ctx, []byte(p.Content), types.ExtendedProvenance{Source: p.Source})
	if err != nil {
		s.sendError("solve", err.Error())
		return
	}
	s.sendData("solve", result)
}

func (s *Server) handleSolveBatch(ctx context.Context, payload json.RawMessage) {
	var p SolveBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("solve_batch", err.Error())
		return
	}

	result, err := s.core.SolveBatch(ctx, p.Items)
	if err != nil {
		s.sendError("solve_batch", err.Error())
		return
	}
	s.sendData("solve_batch", result)
}

func (s *Server) sendData(reqType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.sendError(reqType, err.Error())
		return
	}
	s.send(Response{Success: true, Type: reqType, Data: data})
}

func (s *Server) sendError(reqType, msg string) {
	s.logger.Debug("request failed", zap.String("type", reqType), zap.String("error", msg))
	s.send(Response{Success: false, Type: reqType, Error: msg})
}

func (s *Server) send(resp Response) {
	if err := s.encoder.Encode(resp); err != nil {
		s.logger.Warn("writing response", zap.Error(err))
	}
}
