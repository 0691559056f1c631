// Package sarif renders annotated line ranges as a SARIF 2.1.0 log so
// tool-generated code can be surfaced by code-scanning dashboards.
package sarif

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/praetorian-inc/linemark/pkg/types"
)

const (
	SchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	Version   = "2.1.0"
	ToolName  = "linemark"

	// RuleToolGenerated is the only rule; every annotation is one result.
	RuleToolGenerated = "linemark.tool-generated"
	LevelNote         = "note"
)

// Report is the top-level SARIF log.
type Report struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}

type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

type Tool struct {
	Driver Driver `json:"driver"`
}

type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Rules   []Rule `json:"rules"`
}

type Rule struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	ShortDescription Message `json:"shortDescription"`
}

type Result struct {
	RuleID     string     `json:"ruleId"`
	Level      string     `json:"level"`
	Message    Message    `json:"message"`
	Locations  []Location `json:"locations"`
	Properties Properties `json:"properties"`
}

// Properties carries the fields needed to address an annotation later.
type Properties struct {
	Kind      string `json:"kind"`
	CreatedAt string `json:"createdAt"`
}

type Message struct {
	Text string `json:"text"`
}

type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region covers whole lines, so columns are omitted.
type Region struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
}

// NewReport creates an empty report for the given tool version.
func NewReport(toolVersion string) *Report {
	return &Report{
		Schema:  SchemaURI,
		Version: Version,
		Runs: []Run{{
			Tool: Tool{Driver: Driver{
				Name:    ToolName,
				Version: toolVersion,
				Rules: []Rule{{
					ID:               RuleToolGenerated,
					Name:             "ToolGeneratedCode",
					ShortDescription: Message{Text: "Lines inserted by an automated tool"},
				}},
			}},
			Results: []Result{},
		}},
	}
}

// AddSnapshot appends one result per annotation of doc.
func (r *Report) AddSnapshot(doc string, snap types.Snapshot) {
	uri := formatURI(doc)
	for _, a := range snap.Annotations {
		r.Runs[0].Results = append(r.Runs[0].Results, Result{
			RuleID:  RuleToolGenerated,
			Level:   LevelNote,
			Message: Message{Text: message(a)},
			Locations: []Location{{PhysicalLocation: PhysicalLocation{
				ArtifactLocation: ArtifactLocation{URI: uri},
				Region:           Region{StartLine: a.StartLine, EndLine: a.EndLine},
			}}},
			Properties: Properties{
				Kind:      string(a.Kind),
				CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339Nano),
			},
		})
	}
}

// FromSnapshots builds a report over several documents in sorted order.
func FromSnapshots(toolVersion string, snaps map[string]types.Snapshot) *Report {
	docs := make([]string, 0, len(snaps))
	for doc := range snaps {
		docs = append(docs, doc)
	}
	sort.Strings(docs)

	r := NewReport(toolVersion)
	for _, doc := range docs {
		r.AddSnapshot(doc, snaps[doc])
	}
	return r
}

// ToJSON serializes the report.
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func message(a types.Annotation) string {
	if a.Lines() == 1 {
		return fmt.Sprintf("Line %d is %s", a.StartLine, a.Kind)
	}
	return fmt.Sprintf("Lines %d-%d are %s", a.StartLine, a.EndLine, a.Kind)
}

// formatURI keeps URIs as they are, turns absolute paths into file URIs and
// leaves relative paths relative.
func formatURI(doc string) string {
	if strings.Contains(doc, "://") {
		return doc
	}
	if filepath.IsAbs(doc) {
		path := filepath.ToSlash(doc)
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return "file://" + path
	}
	return filepath.ToSlash(doc)
}
