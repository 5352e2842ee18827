// Package trace parses line-oriented memory access traces.
//
// Each line holds an operation token and an address:
//
//	r 0x1000
//	w 4096
//	# comment lines and blank lines are skipped
//
// Addresses may be decimal, hex (0x), or octal (0o) per Go literal
// syntax.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/cachesim/cache"
)

// An Access is one parsed request.
type Access struct {
	Op      cache.Operation
	Address uint64
}

// Load reads and parses a trace file.
func Load(path string) ([]Access, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer f.Close()

	accesses, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return accesses, nil
}

// Parse reads a trace from r.
func Parse(r io.Reader) ([]Access, error) {
	var accesses []Access

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		access, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		accesses = append(accesses, access)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	return accesses, nil
}

func parseLine(line string) (Access, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Access{}, fmt.Errorf("expected \"<op> <address>\", got %q", line)
	}

	var op cache.Operation
	switch strings.ToLower(fields[0]) {
	case "r", "read":
		op = cache.Read
	case "w", "write":
		op = cache.Write
	default:
		return Access{}, fmt.Errorf("unknown operation %q", fields[0])
	}

	address, err := strconv.ParseUint(fields[1], 0, 64)
	if err != nil {
		return Access{}, fmt.Errorf("bad address %q: %w", fields[1], err)
	}

	return Access{Op: op, Address: address}, nil
}
