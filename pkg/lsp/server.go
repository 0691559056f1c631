// Package lsp exposes annotation tracking as a language server.
//
// Clients send ordinary document synchronization notifications; the server
// turns content changes into commits and publishes the resulting annotations
// back as informational diagnostics.
package lsp

import (
	"sync"

	"github.com/praetorian-inc/linemark/pkg/edit"
	"github.com/praetorian-inc/linemark/pkg/tracker"
	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

// Name is reported to clients and used as the diagnostic source.
const Name = "linemark"

// Command names accepted by workspace/executeCommand.
const (
	CommandRecordAction     = "linemark.recordAction"
	CommandRemoveAnnotation = "linemark.removeAnnotation"
	CommandClear            = "linemark.clear"
)

// Server is the language server state.
type Server struct {
	tracker *tracker.Tracker
	version string
	handler protocol.Handler
	log     commonlog.Logger

	mu   sync.Mutex
	docs map[protocol.DocumentUri]*edit.Document
}

// New creates a language server over t.
func New(t *tracker.Tracker, version string) *Server {
	s := &Server{
		tracker: t,
		version: version,
		log:     commonlog.GetLogger("linemark.lsp"),
		docs:    make(map[protocol.DocumentUri]*edit.Document),
	}
	s.handler = protocol.Handler{
		Initialize:              s.initialize,
		Initialized:             s.initialized,
		Shutdown:                s.shutdown,
		SetTrace:                s.setTrace,
		TextDocumentDidOpen:     s.textDocumentDidOpen,
		TextDocumentDidChange:   s.textDocumentDidChange,
		TextDocumentDidClose:    s.textDocumentDidClose,
		WorkspaceExecuteCommand: s.workspaceExecuteCommand,
	}
	return s
}

// Handler returns the protocol handler.
func (s *Server) Handler() *protocol.Handler {
	return &s.handler
}

// RunStdio serves the protocol on stdin and stdout until the client exits.
func (s *Server) RunStdio() error {
	return server.NewServer(&s.handler, Name, false).RunStdio()
}

func (s *Server) document(uri protocol.DocumentUri) (*edit.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	return doc, ok
}
