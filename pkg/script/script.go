// Package script reads and applies TOML operation scripts to connection
// graphs.
//
// A script is an ordered list of steps:
//
//	name = "office network"
//
//	[[step]]
//	op = "connect-many"
//	node = "switch"
//	others = ["desk-1", "desk-2", "printer"]
//
//	[[step]]
//	op = "collapse"
//	node = "switch"
//
// Pair operations (connect, disconnect) take a and b. Batch operations
// (connect-many, disconnect-many) take node and others. Node operations
// (clear-node, collapse) take node. The clear operation takes nothing.
package script

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/linkgraph/pkg/errors"
)

// Op names a graph operation.
type Op string

// Supported operations.
const (
	OpConnect        Op = "connect"
	OpConnectMany    Op = "connect-many"
	OpDisconnect     Op = "disconnect"
	OpDisconnectMany Op = "disconnect-many"
	OpClearNode      Op = "clear-node"
	OpCollapse       Op = "collapse"
	OpClear          Op = "clear"
)

// Ops lists every supported operation in documentation order.
var Ops = []Op{OpConnect, OpConnectMany, OpDisconnect, OpDisconnectMany, OpClearNode, OpCollapse, OpClear}

// Step is one operation of a script.
type Step struct {
	Op     Op       `toml:"op"`
	A      string   `toml:"a,omitempty"`
	B      string   `toml:"b,omitempty"`
	Node   string   `toml:"node,omitempty"`
	Others []string `toml:"others,omitempty"`
}

// Script is a parsed, validated list of steps.
type Script struct {
	Name  string `toml:"name,omitempty"`
	Steps []Step `toml:"step"`

	// Source names where the script was read from, for messages.
	Source string `toml:"-"`
}

// Parse reads and validates a script. Unknown keys, unknown operations and
// missing operands are reported as INVALID_SCRIPT errors naming the step.
func Parse(r io.Reader) (*Script, error) {
	var s Script
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "decode script")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidScript, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseFile reads and validates the script at path.
func ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "script %s", path)
		}
		return nil, err
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, err
	}
	s.Source = path
	return s, nil
}

// Validate checks every step.
func (s *Script) Validate() error {
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScript, err, "step %d (%s)", i+1, st.Op)
		}
	}
	return nil
}

// Encode writes s as TOML.
func (s *Script) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(s)
}

func (st Step) validate() error {
	switch st.Op {
	case OpConnect, OpDisconnect:
		if err := requireNodes(st.A, st.B); err != nil {
			return err
		}
		return forbid(st.Node == "" && len(st.Others) == 0, "node/others")
	case OpConnectMany, OpDisconnectMany:
		if len(st.Others) == 0 {
			return fmt.Errorf("others is required")
		}
		if err := requireNodes(append([]string{st.Node}, st.Others...)...); err != nil {
			return err
		}
		return forbid(st.A == "" && st.B == "", "a/b")
	case OpClearNode, OpCollapse:
		if err := requireNodes(st.Node); err != nil {
			return err
		}
		return forbid(st.A == "" && st.B == "" && len(st.Others) == 0, "a/b/others")
	case OpClear:
		return forbid(st.A == "" && st.B == "" && st.Node == "" && len(st.Others) == 0, "operands")
	case "":
		return fmt.Errorf("op is required")
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
}

func requireNodes(ids ...string) error {
	for _, id := range ids {
		if err := errors.ValidateNodeID(id); err != nil {
			return err
		}
	}
	return nil
}

func forbid(ok bool, what string) error {
	if ok {
		return nil
	}
	return fmt.Errorf("unexpected %s", what)
}

// Operands returns the node IDs the step names, in order.
func (st Step) Operands() []string {
	switch st.Op {
	case OpConnect, OpDisconnect:
		return []string{st.A, st.B}
	case OpConnectMany, OpDisconnectMany:
		return append([]string{st.Node}, st.Others...)
	case OpClearNode, OpCollapse:
		return []string{st.Node}
	}
	return nil
}
