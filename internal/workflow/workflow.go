package workflow

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// ErrNotObject is returned when a document's top-level value is not a JSON object.
var ErrNotObject = errors.New("workflow document must be a JSON object")

// Workflow is an n8n workflow document kept exactly as it was received.
// Numbers are held as json.Number so the document re-encodes without loss.
type Workflow map[string]any

// Node is a read-only view of one entry of the "nodes" array.
type Node struct {
	ID          string
	Name        string
	Type        string
	TypeVersion float64
	Parameters  map[string]any
}

// Connection is one edge from a source node's output slot to a target node's input.
type Connection struct {
	From        string // source node name
	Output      string // output type, usually "main"
	OutputIndex int
	To          string // target node name
	InputType   string
	InputIndex  int
}

// Decode reads a single JSON object from r.
func Decode(r io.Reader) (Workflow, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty document: %w", io.ErrUnexpectedEOF)
		}
		return nil, err
	}
	// Only whitespace may follow the document. More() would miss a stray
	// closing delimiter, so the next token must be EOF.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after workflow document")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return Workflow(obj), nil
}

// Parse decodes a workflow from raw bytes.
func Parse(data []byte) (Workflow, error) {
	return Decode(bytes.NewReader(data))
}

// Name returns the workflow name, or "" when absent.
func (w Workflow) Name() string {
	return stringField(w, "name")
}

// ID returns the workflow id, or "" when absent.
func (w Workflow) ID() string {
	return stringField(w, "id")
}

// Active reports the "active" flag.
func (w Workflow) Active() bool {
	b, _ := w["active"].(bool)
	return b
}

// Nodes returns the node list in document order. Entries that are not
// objects are skipped.
func (w Workflow) Nodes() []Node {
	raw, _ := w["nodes"].([]any)
	nodes := make([]Node, 0, len(raw))
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		params, _ := obj["parameters"].(map[string]any)
		nodes = append(nodes, Node{
			ID:          stringField(obj, "id"),
			Name:        stringField(obj, "name"),
			Type:        stringField(obj, "type"),
			TypeVersion: numberField(obj, "typeVersion"),
			Parameters:  params,
		})
	}
	return nodes
}

// Connections flattens the "connections" map into edges.
//
// n8n stores connections keyed by source node name, then by output type,
// then by output slot, each slot holding the list of targets:
//
//	{"Start": {"main": [[{"node": "Set", "type": "main", "index": 0}]]}}
//
// Edges are ordered by source name, output type, slot and target position.
func (w Workflow) Connections() []Connection {
	bySource, _ := w["connections"].(map[string]any)
	var edges []Connection

	for _, from := range sortedKeys(bySource) {
		outputs, _ := bySource[from].(map[string]any)
		for _, output := range sortedKeys(outputs) {
			slots, _ := outputs[output].([]any)
			for slot, targets := range slots {
				list, _ := targets.([]any)
				for _, t := range list {
					target, ok := t.(map[string]any)
					if !ok {
						continue
					}
					edges = append(edges, Connection{
						From:        from,
						Output:      output,
						OutputIndex: slot,
						To:          stringField(target, "node"),
						InputType:   stringField(target, "type"),
						InputIndex:  int(numberField(target, "index")),
					})
				}
			}
		}
	}
	return edges
}

// MarshalIndent encodes the document with two-space indentation.
func (w Workflow) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(w, "", "  ")
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func numberField(obj map[string]any, key string) float64 {
	switch n := obj[key].(type) {
	case json.Number:
		f, _ := n.Float64()
		return f
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
