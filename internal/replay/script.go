// Package replay applies scripted sequences of forest mutations and checks
// the forest invariants after every step.
//
// Scripts are TOML documents with an array of steps:
//
//	name = "reparent below sibling"
//
//	[[step]]
//	op = "insert"
//	id = 1
//
//	[[step]]
//	op = "reparent"
//	id = 3
//	parent = 1
//
//	[[step]]
//	op = "reposition"
//	id = 1
//	index = 0
//	expect = "precondition"
//
// Supported operations are insert, reparent, reposition, remove, begin and
// end (change recording), and warm (precompute ancestry). A step may expect
// one of the error kinds invalid, precondition, notfound or invariant.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/npillmayer/forest/forest"
)

// Operations understood in scripts.
const (
	OpInsert     = "insert"
	OpReparent   = "reparent"
	OpReposition = "reposition"
	OpRemove     = "remove"
	OpBegin      = "begin"
	OpEnd        = "end"
	OpWarm       = "warm"
)

// ErrInvalidScript is returned for scripts which cannot be replayed.
var ErrInvalidScript = errors.New("invalid script")

// Script is a named sequence of steps.
type Script struct {
	Name     string `toml:"name"`
	Capacity int    `toml:"capacity"`
	Steps    []Step `toml:"step"`
}

// Step is a single operation of a script.
type Step struct {
	Op     string     `toml:"op"`
	ID     forest.ID  `toml:"id"`
	Parent *forest.ID `toml:"parent"` // reparent only
	Index  *int       `toml:"index"`  // reposition only
	Expect string     `toml:"expect"` // expected error kind, if any
}

func (s Step) String() string {
	switch s.Op {
	case OpReparent:
		if s.Parent != nil {
			return fmt.Sprintf("%s(%d, %d)", s.Op, s.ID, *s.Parent)
		}
	case OpReposition:
		if s.Index != nil {
			return fmt.Sprintf("%s(%d, @%d)", s.Op, s.ID, *s.Index)
		}
	case OpBegin, OpEnd, OpWarm:
		return s.Op
	}
	return fmt.Sprintf("%s(%d)", s.Op, s.ID)
}

var expectations = map[string]error{
	"":             nil,
	"invalid":      forest.ErrInvalidArgument,
	"precondition": forest.ErrPrecondition,
	"notfound":     forest.ErrNotFound,
	"invariant":    forest.ErrInvariant,
}

// Load reads a script from a TOML file.
func Load(path string) (*Script, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file)
}

// Parse decodes a script from TOML and checks it for well-formedness.
func Parse(r io.Reader) (*Script, error) {
	var script Script
	md, err := toml.NewDecoder(r).Decode(&script)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalidScript, strings.Join(keys, ", "))
	}
	for i, step := range script.Steps {
		if err := step.check(); err != nil {
			return nil, fmt.Errorf("%w: step %d: %v", ErrInvalidScript, i+1, err)
		}
	}
	return &script, nil
}

func (s Step) check() error {
	if _, ok := expectations[s.Expect]; !ok {
		return fmt.Errorf("unknown expectation %q", s.Expect)
	}
	switch s.Op {
	case OpInsert, OpRemove, OpBegin, OpEnd, OpWarm:
		return nil
	case OpReparent:
		if s.Parent == nil {
			return errors.New("reparent needs a parent")
		}
	case OpReposition:
		if s.Index == nil {
			return errors.New("reposition needs an index")
		}
	default:
		return fmt.Errorf("unknown operation %q", s.Op)
	}
	return nil
}
