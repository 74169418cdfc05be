// Package conditions holds the per-step bit conditions of a differential path: which bits of each
// chaining variable Q1..Q64 are forced to zero or one, and which must copy (or complement) the
// same bit of the previous chaining variable.
package conditions

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	. "fmt"
	"github.com/minio/sha256-simd"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Steps is the number of conditioned chaining variables, Q1 through Q64.
const Steps = 64

// ErrMalformed is returned by Parse and Load for any line that is not a valid condition.
var ErrMalformed = errors.New("conditions: malformed table")

//go:embed wang.txt
var wang []byte

// Kind is the constraint a condition places on its bit.
type Kind uint8

const (
	ForceZero Kind = iota
	ForceOne
	Copy    /* Bit equals the same bit of the previous chaining variable. */
	CopyNot /* Bit is the complement of the same bit of the previous chaining variable. */
)

func (k Kind) String() string {
	switch k {
	case ForceZero:
		return "zero"
	case ForceOne:
		return "one"
	case Copy:
		return "copy"
	case CopyNot:
		return "copy-not"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Condition pins one bit (0-based) of the chaining variable produced by step Step (1-based).
type Condition struct {
	Step int
	Bit  uint
	Kind Kind
}

// Table is an immutable set of conditions indexed by step. Steps without conditions are empty.
type Table struct {
	steps [Steps + 1][]Condition
	masks [Steps + 1]Mask
	n     int
}

// Parse reads a table in the line format "step bit type" with 1-based bits. Blank lines and lines
// starting with # are ignored. Any malformed line fails the whole table.
func Parse(r io.Reader) (*Table, error) {
	t, sc, line := &Table{}, bufio.NewScanner(r), 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, Errorf("%w: line %d: want 3 fields, got %d", ErrMalformed, line, len(fields))
		}
		var v [3]int
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, Errorf("%w: line %d: %q is not an integer", ErrMalformed, line, f)
			}
			v[i] = n
		}
		step, bit, kind := v[0], v[1], v[2]
		switch {
		case step < 1 || step > Steps:
			return nil, Errorf("%w: line %d: step %d out of range 1..%d", ErrMalformed, line, step, Steps)
		case bit < 1 || bit > 32:
			return nil, Errorf("%w: line %d: bit %d out of range 1..32", ErrMalformed, line, bit)
		case kind < 0 || kind > int(CopyNot):
			return nil, Errorf("%w: line %d: type %d out of range 0..3", ErrMalformed, line, kind)
		}
		if err := t.add(Condition{step, uint(bit - 1), Kind(kind)}); err != nil {
			return nil, Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, Errorf("conditions: read: %w", err)
	}
	return t, nil
}

// New builds a table from conditions directly, applying the same validation as Parse.
func New(conds ...Condition) (*Table, error) {
	t := &Table{}
	for _, c := range conds {
		if c.Step < 1 || c.Step > Steps || c.Bit > 31 || c.Kind > CopyNot {
			return nil, Errorf("%w: invalid condition %+v", ErrMalformed, c)
		}
		if err := t.add(c); err != nil {
			return nil, Errorf("%w: %v", ErrMalformed, err)
		}
	}
	return t, nil
}

func (t *Table) add(c Condition) error {
	m, bit := &t.masks[c.Step], uint32(1)<<c.Bit
	if m.Bits()&bit != 0 {
		return Errorf("step %d bit %d constrained twice", c.Step, c.Bit+1)
	}
	switch c.Kind {
	case ForceZero:
		m.Zero |= bit
	case ForceOne:
		m.One |= bit
	case Copy:
		m.Copy |= bit
	case CopyNot:
		m.CopyNot |= bit
	}
	t.steps[c.Step] = append(t.steps[c.Step], c)
	t.n++
	return nil
}

// Load parses the table stored at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Errorf("conditions: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Default returns the embedded second-block table. It panics if the embedded file is malformed.
func Default() *Table {
	t, err := Parse(bytes.NewReader(wang))
	if err != nil {
		panic(err)
	}
	return t
}

// For returns the ordered conditions of step, or nil when step is out of range or unconstrained.
func (t *Table) For(step int) []Condition {
	if step < 1 || step > Steps {
		return nil
	}
	return t.steps[step]
}

// Mask returns the compiled mask of step; out-of-range steps yield the empty mask.
func (t *Table) Mask(step int) Mask {
	if step < 1 || step > Steps {
		return Mask{}
	}
	return t.masks[step]
}

// Masks returns every compiled mask indexed by step; index 0 is always empty.
func (t *Table) Masks() [Steps + 1]Mask { return t.masks }

// Len returns the total number of conditions.
func (t *Table) Len() int { return t.n }

// String renders the table in canonical form: one line per condition, sorted by step then bit.
func (t *Table) String() string {
	var sb strings.Builder
	for step := 1; step <= Steps; step++ {
		conds := append([]Condition(nil), t.steps[step]...)
		sort.Slice(conds, func(i, j int) bool { return conds[i].Bit < conds[j].Bit })
		for _, c := range conds {
			Fprintf(&sb, "%d %d %d\n", c.Step, c.Bit+1, c.Kind)
		}
	}
	return sb.String()
}

// Digest identifies the table by the SHA-256 of its canonical form, so logs can tell which
// conditions a search ran under regardless of comments or ordering in the source file.
func (t *Table) Digest() [sha256.Size]byte {
	return sha256.Sum256([]byte(t.String()))
}
