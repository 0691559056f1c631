package lsp

import (
	"github.com/praetorian-inc/linemark/pkg/edit"
	"github.com/praetorian-inc/linemark/pkg/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{CommandRecordAction, CommandRemoveAnnotation, CommandClear},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	s.log.Debugf("client initialized")
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	if err := s.tracker.Close(); err != nil {
		s.log.Errorf("closing store: %s", err)
	}
	return nil
}

func (s *Server) setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	if s.tracker.Excluded(string(uri)) {
		s.log.Debugf("ignoring excluded document %s", uri)
		return nil
	}

	version := int(params.TextDocument.Version)
	s.mu.Lock()
	s.docs[uri] = edit.NewDocument(params.TextDocument.Text, version)
	s.mu.Unlock()

	snap, err := s.tracker.Open(string(uri), version)
	if err != nil {
		return err
	}
	publish(context, uri, snap)
	return nil
}

// textDocumentDidChange applies the notification's changes in order. Each
// change is expressed against the text left by the previous one, so each
// becomes its own commit; the batch is classified once.
func (s *Server) textDocumentDidChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	doc, ok := s.document(uri)
	if !ok {
		return nil
	}

	edits := make([]types.EditOperation, 0, len(params.ContentChanges))
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			edits = append(edits, doc.Change(fromProtocolRange(c.Range), c.Text, rangeLength(c.RangeLength)))
		case protocol.TextDocumentContentChangeEventWhole:
			edits = append(edits, doc.Replace(c.Text))
		default:
			s.log.Warningf("unsupported content change %T for %s", change, uri)
		}
	}

	version := int(params.TextDocument.Version)
	doc.SetVersion(version)

	significant := s.tracker.Classify(edits)
	if c := s.tracker.Classifier(); c != nil {
		c.Actions().Expire()
	}

	var snap types.Snapshot
	for _, e := range edits {
		var err error
		snap, err = s.tracker.Apply(string(uri), types.Commit{
			TargetVersion: version,
			IsSignificant: significant,
			Edits:         []types.EditOperation{e},
		})
		if err != nil {
			return err
		}
	}
	if len(edits) > 0 {
		publish(context, uri, snap)
	}
	return nil
}

func (s *Server) textDocumentDidClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()

	s.tracker.Forget(string(uri))
	publish(context, uri, types.Snapshot{})
	return nil
}
