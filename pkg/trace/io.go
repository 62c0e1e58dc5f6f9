package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/matzehuels/timegrid/pkg/errors"
)

// Write encodes a recording as JSON and writes it to w.
// The output can be re-read with [Read] for replay.
func Write(rec Recording, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("encode recording: %w", err)
	}
	return nil
}

// Read decodes a JSON recording from r. Read does not close r.
func Read(r io.Reader) (Recording, error) {
	var rec Recording
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return Recording{}, fmt.Errorf("decode recording: %w", err)
	}
	for i, s := range rec.Samples {
		if err := checkSample(s); err != nil {
			return Recording{}, fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return rec, nil
}

// checkSample rejects samples a replay could not execute.
func checkSample(s Sample) error {
	switch s.Kind {
	case SamplePointer:
		if s.Pointer == nil {
			return fmt.Errorf("pointer sample without pointer payload")
		}
	case SamplePinch:
		if s.Pinch == nil {
			return fmt.Errorf("pinch sample without pinch payload")
		}
	case SampleTick:
		if s.At.IsZero() {
			return fmt.Errorf("tick sample without timestamp")
		}
	default:
		return fmt.Errorf("unknown sample kind %q", s.Kind)
	}
	return nil
}

// Save writes a recording to a JSON file at path.
// This is a convenience wrapper around [Write] for file-based output.
func Save(rec Recording, path string) error {
	if err := apperrors.ValidateTraceFilename(filepath.Base(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(rec, f)
}

// Load reads a JSON recording file at path.
func Load(path string) (Recording, error) {
	if err := apperrors.ValidateTraceFilename(filepath.Base(path)); err != nil {
		return Recording{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Recording{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// List returns the recording files directly under dir, sorted by name.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read trace dir: %w", err)
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		out = append(out, filepath.Join(dir, entry.Name()))
	}
	return out, nil
}
