// Package trace reads memory access traces and replays them against a
// memory.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/memsim/mem"
)

// Kind is the direction of an access.
type Kind int

const (
	// Read is a load.
	Read Kind = iota
	// Write is a store.
	Write
)

func (k Kind) String() string {
	if k == Write {
		return "W"
	}

	return "R"
}

// Access is one trace record.
type Access struct {
	Kind  Kind
	Addr  uint32
	Value uint32
	Line  int
}

// Parse reads a trace. Each non-empty line is "R <addr>" or
// "W <addr> <value>". Numbers accept Go integer literal prefixes such as 0x
// and 0b. Text after '#' is ignored.
func Parse(r io.Reader) ([]Access, error) {
	var accesses []Access

	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}

		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		access, err := parseFields(fields)
		if err != nil {
			return nil, fmt.Errorf("trace line %d: %w", lineNo, err)
		}

		access.Line = lineNo
		accesses = append(accesses, access)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	return accesses, nil
}

func parseFields(fields []string) (Access, error) {
	var access Access

	switch strings.ToUpper(fields[0]) {
	case "R":
		if len(fields) != 2 {
			return access, fmt.Errorf("read takes an address, got %d fields",
				len(fields))
		}
		access.Kind = Read
	case "W":
		if len(fields) != 3 {
			return access, fmt.Errorf("write takes an address and a value, got %d fields",
				len(fields))
		}
		access.Kind = Write
	default:
		return access, fmt.Errorf("unknown access kind %q", fields[0])
	}

	addr, err := parseWord(fields[1])
	if err != nil {
		return access, fmt.Errorf("bad address: %w", err)
	}
	access.Addr = addr

	if access.Kind == Write {
		value, err := parseWord(fields[2])
		if err != nil {
			return access, fmt.Errorf("bad value: %w", err)
		}
		access.Value = value
	}

	return access, nil
}

func parseWord(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, err
	}

	return uint32(v), nil
}

// Result summarizes a replay.
type Result struct {
	Reads  int
	Writes int

	// Misses counts reads for which the memory had no value.
	Misses int

	// Values holds the value each read returned, in trace order.
	Values []uint32
}

// Replay applies accesses to m in order. It stops at the first error.
func Replay(m mem.Accessor[uint32], accesses []Access) (Result, error) {
	var result Result

	for _, a := range accesses {
		switch a.Kind {
		case Read:
			result.Reads++

			data, ok, err := m.Get(a.Addr)
			if err != nil {
				return result, fmt.Errorf("trace line %d: read 0x%X: %w",
					a.Line, a.Addr, err)
			}

			if !ok {
				result.Misses++
			}

			result.Values = append(result.Values, data)
		case Write:
			result.Writes++

			if err := m.Set(a.Addr, a.Value); err != nil {
				return result, fmt.Errorf("trace line %d: write 0x%X: %w",
					a.Line, a.Addr, err)
			}
		}
	}

	return result, nil
}
