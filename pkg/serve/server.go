package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/praetorian-inc/linemark/pkg/edit"
	"github.com/praetorian-inc/linemark/pkg/tracker"
	"github.com/praetorian-inc/linemark/pkg/types"
	"github.com/tliron/commonlog"
)

// Version is the server protocol version
const Version = "1.0.0"

// Server answers NDJSON requests from an editor extension
type Server struct {
	tracker *tracker.Tracker
	encoder *json.Encoder
	decoder *json.Decoder
	log     commonlog.Logger
}

// NewServer creates a new streaming server
func NewServer(t *tracker.Tracker, in io.Reader, out io.Writer) *Server {
	return &Server{
		tracker: t,
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
		log:     commonlog.GetLogger("linemark.serve"),
	}
}

// Run starts the server main loop
func (s *Server) Run(ctx context.Context) error {
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

	// Process requests until stdin closes or context cancels
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Drain any pending requests before handling EOF
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(req) {
						return nil
					}
				default:
					if err == io.EOF {
						return nil
					}
					s.sendError("decode", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(req Request) bool {
	resp, exit := s.Dispatch(req)
	if exit {
		return true
	}
	s.encoder.Encode(resp)
	return false
}

// Dispatch runs one request and returns its response. exit reports a close
// request, which has no response.
func (s *Server) Dispatch(req Request) (resp Response, exit bool) {
	s.log.Debugf("request %s", req.Type)

	var (
		data any
		err  error
	)
	switch req.Type {
	case "open":
		data, err = s.handleOpen(req.Payload)
	case "commit":
		data, err = s.handleCommit(req.Payload)
	case "change":
		data, err = s.handleChange(req.Payload)
	case "snapshot":
		data, err = s.handleSnapshot(req.Payload)
	case "remove":
		data, err = s.handleRemove(req.Payload)
	case "clear":
		data, err = s.handleClear(req.Payload)
	case "action":
		data, err = s.handleAction(req.Payload)
	case "documents":
		data, err = s.handleDocuments()
	case "close":
		return Response{}, true
	default:
		return errorResponse("unknown", "unknown request type: "+req.Type), false
	}

	if err != nil {
		s.log.Warningf("%s failed: %s", req.Type, err)
		return errorResponse(req.Type, err.Error()), false
	}
	return successResponse(req.Type, data), false
}

func (s *Server) handleOpen(payload json.RawMessage) (any, error) {
	var p OpenPayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, err
	}
	snap, err := s.tracker.Open(p.Document, p.Version)
	if err != nil {
		return nil, err
	}
	return SnapshotData{Document: p.Document, Snapshot: snap}, nil
}

func (s *Server) handleCommit(payload json.RawMessage) (any, error) {
	var p CommitPayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, err
	}

	significant := s.tracker.Classify(p.Edits)
	if p.IsSignificant != nil {
		significant = *p.IsSignificant
	}

	snap, err := s.tracker.Apply(p.Document, types.Commit{
		TargetVersion: p.TargetVersion,
		IsSignificant: significant,
		Edits:         p.Edits,
	})
	if err != nil {
		return nil, err
	}
	return SnapshotData{Document: p.Document, Snapshot: snap}, nil
}

// handleChange converts host change events. Events are sequential, each in
// the coordinates left by the previous one, so every event is its own commit.
func (s *Server) handleChange(payload json.RawMessage) (any, error) {
	var p ChangePayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, err
	}

	edits := make([]types.EditOperation, 0, len(p.Changes))
	for _, c := range p.Changes {
		edits = append(edits, edit.FromChange(c.Range.Start, c.Range.End, c.Text, c.RangeLength))
	}
	significant := s.tracker.Classify(edits)

	snap := s.tracker.Snapshot(p.Document)
	for _, e := range edits {
		var err error
		snap, err = s.tracker.Apply(p.Document, types.Commit{
			TargetVersion: p.Version,
			IsSignificant: significant,
			Edits:         []types.EditOperation{e},
		})
		if err != nil {
			return nil, err
		}
	}
	return SnapshotData{Document: p.Document, Snapshot: snap}, nil
}

func (s *Server) handleSnapshot(payload json.RawMessage) (any, error) {
	var p DocumentPayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, err
	}
	return SnapshotData{Document: p.Document, Snapshot: s.tracker.Snapshot(p.Document)}, nil
}

func (s *Server) handleRemove(payload json.RawMessage) (any, error) {
	var p RemovePayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, err
	}
	snap, err := s.tracker.Remove(p.Document, p.StartLine, p.EndLine, p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return SnapshotData{Document: p.Document, Snapshot: snap}, nil
}

func (s *Server) handleClear(payload json.RawMessage) (any, error) {
	var p DocumentPayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, err
	}
	if err := s.tracker.Clear(p.Document); err != nil {
		return nil, err
	}
	return SnapshotData{Document: p.Document, Snapshot: s.tracker.Snapshot(p.Document)}, nil
}

func (s *Server) handleAction(payload json.RawMessage) (any, error) {
	var p ActionPayload
	if err := decodePayload(payload, &p); err != nil {
		return nil, err
	}
	if p.Tag == "" {
		return nil, fmt.Errorf("tag is required")
	}
	s.tracker.RecordAction(p.Tag)
	return nil, nil
}

func (s *Server) handleDocuments() (any, error) {
	docs, err := s.tracker.Documents()
	if err != nil {
		return nil, err
	}
	return DocumentsData{Documents: docs}, nil
}

func decodePayload(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return fmt.Errorf("payload is required")
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}
	return nil
}

func (s *Server) sendReady() {
	s.send("ready", ReadyData{Version: Version})
}

func (s *Server) send(reqType string, v any) {
	s.encoder.Encode(successResponse(reqType, v))
}

func (s *Server) sendError(reqType, msg string) {
	s.encoder.Encode(errorResponse(reqType, msg))
}

func successResponse(reqType string, v any) Response {
	resp := Response{Success: true, Type: reqType}
	if v != nil {
		data, err := json.Marshal(v)
		if err != nil {
			return errorResponse(reqType, err.Error())
		}
		resp.Data = data
	}
	return resp
}

func errorResponse(reqType, msg string) Response {
	return Response{
		Success: false,
		Type:    reqType,
		Error:   msg,
	}
}
