// Package verification verifies that a generated listing recreates the input ROM.
package verification

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

var errInvalidListing = errors.New("invalid listing line")

// VerifyListing verifies that the bytes contained in the listing recreate the
// exact ROM. Instructions carry their bytes in the trailing comment, data is
// read from the .byte directives.
func VerifyListing(logger *log.Logger, listing io.Reader, rom []byte) error {
	output, err := assemble(listing)
	if err != nil {
		return fmt.Errorf("reassembling listing: %w", err)
	}

	if err := checkBufferEqual(logger, rom, output); err != nil {
		return fmt.Errorf("listing mismatch: %w", err)
	}
	return nil
}

// assemble extracts the program bytes of a listing in the order they appear.
func assemble(listing io.Reader) ([]byte, error) {
	var output []byte
	scanner := bufio.NewScanner(listing)

	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasSuffix(line, ":") {
			continue
		}

		var (
			data []byte
			err  error
		)
		if rest, ok := strings.CutPrefix(line, ".byte "); ok {
			data, err = parseData(rest)
		} else {
			data, err = parseInstruction(line, memory.ProgramStart+len(output))
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		output = append(output, data...)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading listing: %w", err)
	}
	return output, nil
}

// parseData parses the values of a .byte directive.
func parseData(s string) ([]byte, error) {
	values, _, _ := strings.Cut(s, ";")

	var data []byte
	for value := range strings.SplitSeq(values, ",") {
		b, err := parseHexByte(strings.TrimPrefix(strings.TrimSpace(value), "$"))
		if err != nil {
			return nil, err
		}
		data = append(data, b)
	}
	return data, nil
}

// parseInstruction parses the address and bytes comment of an instruction
// line and checks that the address follows the previous bytes.
func parseInstruction(s string, expectedAddress int) ([]byte, error) {
	_, comment, ok := strings.Cut(s, ";")
	if !ok {
		return nil, fmt.Errorf("%w: missing bytes comment '%s'", errInvalidListing, s)
	}

	// address and both instruction bytes, optionally followed by an annotation
	fields := strings.Fields(comment)
	if len(fields) < 3 || !strings.HasPrefix(fields[0], "$") {
		return nil, fmt.Errorf("%w: malformed bytes comment '%s'", errInvalidListing, comment)
	}

	address, err := strconv.ParseUint(fields[0][1:], 16, 16)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid address '%s'", errInvalidListing, fields[0])
	}
	if int(address) != expectedAddress {
		return nil, fmt.Errorf("%w: address $%04X found, expected $%04X", errInvalidListing, address, expectedAddress)
	}

	data := make([]byte, 0, 2)
	for _, field := range fields[1:3] {
		b, err := parseHexByte(field)
		if err != nil {
			return nil, err
		}
		data = append(data, b)
	}
	return data, nil
}

func parseHexByte(s string) (byte, error) {
	b, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid byte '%s'", errInvalidListing, s)
	}
	return byte(b), nil
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs int
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs < 10 {
			logger.Error("Offset mismatch",
				log.Hex("address", memory.ProgramStart+i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
