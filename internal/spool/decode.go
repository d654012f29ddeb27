package spool

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/amishk599/jobledger/internal/model"
)

// Decode reads job observations from r. It accepts a single JSON object,
// a JSON array of objects, or newline-delimited objects.
func Decode(r io.Reader) ([]model.RawJob, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read input: %w", err)
	}

	dec := json.NewDecoder(br)
	if first == '[' {
		var raws []model.RawJob
		if err := dec.Decode(&raws); err != nil {
			return nil, fmt.Errorf("decode job array: %w", err)
		}
		return raws, nil
	}

	var raws []model.RawJob
	for {
		var raw model.RawJob
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return raws, nil
			}
			return nil, fmt.Errorf("decode job %d: %w", len(raws)+1, err)
		}
		raws = append(raws, raw)
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
		default:
			return b, br.UnreadByte()
		}
	}
}
