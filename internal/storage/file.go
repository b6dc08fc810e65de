package storage

import (
	"fmt"
	"io"
	"os"

	"flipbook/internal/state"
)

// ReadDocument decodes a document from r.
func ReadDocument(r io.Reader) (*state.Document, []byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := state.Decode(data)
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

// WriteDocument encodes the reel to w.
func WriteDocument(w io.Writer, r *state.Reel) (int, error) {
	data, err := state.Encode(r)
	if err != nil {
		return 0, fmt.Errorf("encode document: %w", err)
	}
	n, err := w.Write(data)
	if err != nil {
		return n, fmt.Errorf("write document: %w", err)
	}
	return n, nil
}

func ReadDocumentFile(path string) (*state.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, _, err := ReadDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func WriteDocumentFile(path string, r *state.Reel) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := WriteDocument(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
