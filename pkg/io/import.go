package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/brickyard/pkg/brick"
	errs "github.com/matzehuels/brickyard/pkg/errors"
)

// record mirrors brick.Instance with pointers so missing fields can be told
// apart from zero values.
type record struct {
	ID       *string     `json:"id"`
	TypeID   *string     `json:"typeId"`
	Position *brick.Vec3 `json:"position"`
	Rotation *brick.Vec3 `json:"rotation"`
	Color    string      `json:"color"`
}

// Unmarshal decodes and validates a persisted build. See the package
// documentation for the rules. Errors carry the INVALID_FORMAT code.
func Unmarshal(data []byte) ([]brick.Instance, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "build data must be a JSON array")
	}

	var records []record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode build")
	}

	bricks := make([]brick.Instance, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		switch {
		case r.ID == nil || *r.ID == "":
			return nil, errs.New(errs.ErrCodeInvalidFormat, "brick %d: missing id", i)
		case r.TypeID == nil:
			return nil, errs.New(errs.ErrCodeInvalidFormat, "brick %s: missing typeId", *r.ID)
		case r.Position == nil:
			return nil, errs.New(errs.ErrCodeInvalidFormat, "brick %s: missing position", *r.ID)
		}
		if _, dup := seen[*r.ID]; dup {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "duplicate brick id %q", *r.ID)
		}
		seen[*r.ID] = struct{}{}

		b := brick.Instance{
			ID:       *r.ID,
			TypeID:   *r.TypeID,
			Position: *r.Position,
			Color:    r.Color,
		}
		if r.Rotation != nil {
			b.Rotation = *r.Rotation
		}
		bricks = append(bricks, b)
	}
	return bricks, nil
}

// Validate applies the Unmarshal rules to an already decoded sequence:
// non-empty, unique ids and finite vectors.
func Validate(bricks []brick.Instance) error {
	seen := make(map[string]struct{}, len(bricks))
	for i, b := range bricks {
		if b.ID == "" {
			return errs.New(errs.ErrCodeInvalidFormat, "brick %d: missing id", i)
		}
		if _, dup := seen[b.ID]; dup {
			return errs.New(errs.ErrCodeInvalidFormat, "duplicate brick id %q", b.ID)
		}
		seen[b.ID] = struct{}{}
		if !b.Position.IsFinite() || !b.Rotation.IsFinite() {
			return errs.New(errs.ErrCodeInvalidFormat, "brick %s: non-finite coordinates", b.ID)
		}
	}
	return nil
}

// ReadJSON reads all of r and decodes it with Unmarshal. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) ([]brick.Instance, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "read build")
	}
	return Unmarshal(data)
}

// ImportJSON reads and decodes the JSON build file at path.
func ImportJSON(path string) ([]brick.Instance, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
