package lsp

import (
	"fmt"
	"time"

	"github.com/praetorian-inc/linemark/pkg/edit"
	"github.com/praetorian-inc/linemark/pkg/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DiagnosticData is attached to every published diagnostic so clients can
// send the exact removal triple back.
type DiagnosticData struct {
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	CreatedAt string `json:"createdAt"`
	Kind      string `json:"kind"`
}

func publish(context *glsp.Context, uri protocol.DocumentUri, snap types.Snapshot) {
	context.Notify("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: Diagnostics(snap),
	})
}

// Diagnostics renders each annotation as an informational diagnostic
// spanning its full lines.
func Diagnostics(snap types.Snapshot) []protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityInformation
	source := Name

	diagnostics := make([]protocol.Diagnostic, 0, len(snap.Annotations))
	for _, a := range snap.Annotations {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    toProtocolRange(edit.ToRange(a)),
			Severity: &severity,
			Source:   &source,
			Message:  message(a),
			Data: DiagnosticData{
				StartLine: a.StartLine,
				EndLine:   a.EndLine,
				CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339Nano),
				Kind:      string(a.Kind),
			},
		})
	}
	return diagnostics
}

func message(a types.Annotation) string {
	if a.Lines() == 1 {
		return fmt.Sprintf("%s line", a.Kind)
	}
	return fmt.Sprintf("%s lines (%d)", a.Kind, a.Lines())
}

func fromProtocolRange(r *protocol.Range) edit.Range {
	if r == nil {
		return edit.Range{}
	}
	return edit.Range{
		Start: edit.Position{Line: int(r.Start.Line), Character: int(r.Start.Character)},
		End:   edit.Position{Line: int(r.End.Line), Character: int(r.End.Character)},
	}
}

func toProtocolRange(r edit.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(r.Start.Line), Character: protocol.UInteger(r.Start.Character)},
		End:   protocol.Position{Line: protocol.UInteger(r.End.Line), Character: protocol.UInteger(r.End.Character)},
	}
}

func rangeLength(n *protocol.UInteger) *uint32 {
	if n == nil {
		return nil
	}
	v := uint32(*n)
	return &v
}
