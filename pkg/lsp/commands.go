package lsp

import (
	"fmt"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) workspaceExecuteCommand(context *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	switch params.Command {
	case CommandRecordAction:
		tag, err := stringArg(params.Arguments, 0)
		if err != nil {
			return nil, err
		}
		s.tracker.RecordAction(tag)
		return nil, nil

	case CommandRemoveAnnotation:
		return nil, s.removeAnnotation(context, params.Arguments)

	case CommandClear:
		uri, err := stringArg(params.Arguments, 0)
		if err != nil {
			return nil, err
		}
		if err := s.tracker.Clear(uri); err != nil {
			return nil, err
		}
		publish(context, protocol.DocumentUri(uri), s.tracker.Snapshot(uri))
		return nil, nil
	}
	return nil, fmt.Errorf("unknown command %q", params.Command)
}

// removeAnnotation takes [uri, startLine, endLine, createdAt].
func (s *Server) removeAnnotation(context *glsp.Context, args []any) error {
	uri, err := stringArg(args, 0)
	if err != nil {
		return err
	}
	start, err := intArg(args, 1)
	if err != nil {
		return err
	}
	end, err := intArg(args, 2)
	if err != nil {
		return err
	}
	stamp, err := stringArg(args, 3)
	if err != nil {
		return err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return fmt.Errorf("argument 3: %w", err)
	}

	snap, err := s.tracker.Remove(uri, start, end, createdAt)
	if err != nil {
		return err
	}
	publish(context, protocol.DocumentUri(uri), snap)
	return nil
}

func stringArg(args []any, i int) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("missing argument %d", i)
	}
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("argument %d: expected string, got %T", i, args[i])
	}
	return s, nil
}

// intArg accepts JSON numbers, which decode as float64.
func intArg(args []any, i int) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing argument %d", i)
	}
	switch v := args[i].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	}
	return 0, fmt.Errorf("argument %d: expected number, got %T", i, args[i])
}
