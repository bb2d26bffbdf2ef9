package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/brickyard/pkg/brick"
	errs "github.com/matzehuels/brickyard/pkg/errors"
)

// Marshal encodes bricks as a compact JSON array. A nil slice encodes as [].
func Marshal(bricks []brick.Instance) ([]byte, error) {
	if bricks == nil {
		bricks = []brick.Instance{}
	}
	data, err := json.Marshal(bricks)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode build")
	}
	return data, nil
}

// WriteJSON encodes bricks as indented JSON and writes it to w.
func WriteJSON(bricks []brick.Instance, w io.Writer) error {
	if bricks == nil {
		bricks = []brick.Instance{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(bricks)
}

// ExportJSON writes bricks to a JSON file at path, replacing any existing
// file.
func ExportJSON(bricks []brick.Instance, path string) error {
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := WriteJSON(bricks, f); err != nil {
		f.Close()
		return errs.Wrap(errs.ErrCodeInternal, err, "write %s", path)
	}
	return f.Close()
}
