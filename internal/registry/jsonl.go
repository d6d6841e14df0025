package registry

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"bindEnhance/internal/model"
)

// JsonlSink appends registry entries to a JSONL file.
type JsonlSink struct {
	path string
	mu   sync.Mutex
}

func NewJsonlSink(path string) *JsonlSink {
	return &JsonlSink{path: path}
}

// PutEntries appends a batch of entries as JSON lines.
func (s *JsonlSink) PutEntries(_ context.Context, entries []model.SignatureEntry) error {
	if len(entries) == 0 {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create registry dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open registry file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, entry := range entries {
		line, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal registry entry: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write registry entry: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush registry: %w", err)
	}

	return nil
}

// Lookup scans the file for entries with the given selector. Later lines win
// over earlier ones for the same contract, kind and signature.
func (s *JsonlSink) Lookup(ctx context.Context, selector string) ([]model.SignatureEntry, error) {
	selector = NormalizeSelector(selector)

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open registry file: %w", err)
	}
	defer file.Close()

	type key struct{ contract, kind, signature string }
	index := make(map[key]int)
	matches := make([]model.SignatureEntry, 0)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var entry model.SignatureEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return nil, fmt.Errorf("parse registry line %d: %w", line, err)
		}
		if entry.Selector != selector {
			continue
		}
		k := key{entry.Contract, entry.Kind, entry.Signature}
		if i, ok := index[k]; ok {
			matches[i] = entry
			continue
		}
		index[k] = len(matches)
		matches = append(matches, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	return matches, nil
}
