package main

import (
	"fmt"
	"io"
	"os"

	"github.com/amishk599/jobledger/internal/model"
	"github.com/amishk599/jobledger/internal/spool"
)

// readInputs decodes every named file in order. No names, or "-", reads stdin.
func readInputs(paths []string, stdin io.Reader) ([]model.RawJob, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	var all []model.RawJob
	for _, p := range paths {
		raws, err := readInput(p, stdin)
		if err != nil {
			return nil, err
		}
		all = append(all, raws...)
	}
	return all, nil
}

func readInput(path string, stdin io.Reader) ([]model.RawJob, error) {
	if path == "-" {
		raws, err := spool.Decode(stdin)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		return raws, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	raws, err := spool.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raws, nil
}
