// Package replay parses and runs deterministic put/get scripts against a cache.
//
// A script is line oriented. A field starting with # begins a comment that runs
// to the end of the line; blank and comment-only lines are ignored:
//
//	put <key> <value>
//	get <key>             # record the result
//	get <key> <expected>  # assert; "-" expects a miss
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Miss is the expected-value token meaning "key not found".
const Miss = "-"

var (
	// ErrSyntax is wrapped by Parse for malformed lines.
	ErrSyntax = errors.New("replay: syntax error")
	// ErrMismatch is wrapped by Run when a get assertion fails.
	ErrMismatch = errors.New("replay: unexpected result")
)

// Kind is the operation of a script line.
type Kind int

const (
	Put Kind = iota
	Get
)

func (k Kind) String() string {
	switch k {
	case Put:
		return "put"
	case Get:
		return "get"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Op is one parsed script line.
type Op struct {
	Line  int
	Kind  Kind
	Key   string
	Value string

	// Assert is set for "get <key> <expected>"; Want holds <expected>.
	Assert bool
	Want   string
}

// Store is the cache surface a script drives.
type Store interface {
	Get(key string) (string, bool)
	Put(key, value string) error
}

// Result summarises a Run.
type Result struct {
	Puts    int
	Gets    int
	Hits    int
	Misses  int
	Asserts int
}

// Parse reads a script from r.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := stripComment(strings.Fields(sc.Text()))
		if len(fields) == 0 {
			continue
		}

		op, err := parseLine(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		op.Line = line
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return ops, nil
}

// stripComment drops everything from the first field starting with #.
func stripComment(fields []string) []string {
	for i, f := range fields {
		if strings.HasPrefix(f, "#") {
			return fields[:i]
		}
	}
	return fields
}

func parseLine(fields []string) (Op, error) {
	switch strings.ToLower(fields[0]) {
	case "put":
		if len(fields) != 3 {
			return Op{}, fmt.Errorf("%w: put takes <key> <value>, got %d argument(s)", ErrSyntax, len(fields)-1)
		}
		if fields[2] == Miss {
			return Op{}, fmt.Errorf("%w: value %q is reserved for misses", ErrSyntax, Miss)
		}
		return Op{Kind: Put, Key: fields[1], Value: fields[2]}, nil
	case "get":
		switch len(fields) {
		case 2:
			return Op{Kind: Get, Key: fields[1]}, nil
		case 3:
			return Op{Kind: Get, Key: fields[1], Assert: true, Want: fields[2]}, nil
		default:
			return Op{}, fmt.Errorf("%w: get takes <key> [expected], got %d argument(s)", ErrSyntax, len(fields)-1)
		}
	default:
		return Op{}, fmt.Errorf("%w: unknown operation %q", ErrSyntax, fields[0])
	}
}

// Run applies ops to s in order and writes one line per get to w.
//
// Run stops at the first failed assertion or store error.
func Run(s Store, ops []Op, w io.Writer) (Result, error) {
	var res Result
	for _, op := range ops {
		switch op.Kind {
		case Put:
			if err := s.Put(op.Key, op.Value); err != nil {
				return res, fmt.Errorf("line %d: put %s: %w", op.Line, op.Key, err)
			}
			res.Puts++
		case Get:
			v, ok := s.Get(op.Key)
			res.Gets++
			got := Miss
			if ok {
				res.Hits++
				got = v
			} else {
				res.Misses++
			}
			if _, err := fmt.Fprintf(w, "get %s -> %s\n", op.Key, got); err != nil {
				return res, err
			}

			if !op.Assert {
				continue
			}
			res.Asserts++
			if got != op.Want {
				return res, fmt.Errorf("line %d: get %s: %w: want %s, got %s", op.Line, op.Key, ErrMismatch, op.Want, got)
			}
		default:
			return res, fmt.Errorf("line %d: %w: %v", op.Line, ErrSyntax, op.Kind)
		}
	}
	return res, nil
}
