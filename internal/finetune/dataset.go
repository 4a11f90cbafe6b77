// Package finetune prepares a conversation dataset and drives a supervised
// LoRA fine-tune on the Tinker service.
package finetune

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"spotvoice/internal/chat"
)

const maxLineBytes = 4 << 20

var ErrDatasetNotFound = errors.New("training data not found")

// Example is one JSONL line: a conversation ending in the target assistant turn.
type Example struct {
	Messages []chat.Message `json:"messages"`
}

func (e Example) Validate() error {
	if err := chat.Validate(e.Messages); err != nil {
		return err
	}
	for _, m := range e.Messages {
		if m.Role == chat.RoleAssistant && m.Content != "" {
			return nil
		}
	}
	return errors.New("no assistant message to learn from")
}

// Dataset keeps the raw lines; they are uploaded byte for byte.
type Dataset struct {
	Path  string
	Lines []json.RawMessage
}

func (d *Dataset) Len() int {
	return len(d.Lines)
}

// LoadDataset reads and validates a JSONL conversation file. Blank lines are skipped.
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrDatasetNotFound, path)
		}
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := ReadDataset(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ds.Path = path
	return ds, nil
}

func ReadDataset(r io.Reader) (*Dataset, error) {
	ds := &Dataset{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var ex Example
		if err := json.Unmarshal(line, &ex); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := ex.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		ds.Lines = append(ds.Lines, json.RawMessage(bytes.Clone(line)))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(ds.Lines) == 0 {
		return nil, errors.New("dataset has no examples")
	}
	return ds, nil
}
