package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Model Serialization API
// =============================================================================

// MarshalModel serializes a model to pretty-printed JSON bytes.
func MarshalModel(m ArchitectureModel) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// UnmarshalModel deserializes JSON bytes into a model.
// A payload whose nodes or edges are not arrays is a caller contract
// violation and fails here rather than partially rendering downstream.
func UnmarshalModel(data []byte) (ArchitectureModel, error) {
	var m ArchitectureModel
	if err := json.Unmarshal(data, &m); err != nil {
		return ArchitectureModel{}, fmt.Errorf("unmarshal model: %w", err)
	}
	return m, nil
}

// ReadModel decodes a model from r.
func ReadModel(r io.Reader) (ArchitectureModel, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ArchitectureModel{}, fmt.Errorf("read model: %w", err)
	}
	return UnmarshalModel(data)
}

// WriteModel encodes a model to w as indented JSON.
func WriteModel(m ArchitectureModel, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return nil
}

// ReadModelFile reads a model from a JSON file.
func ReadModelFile(path string) (ArchitectureModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ArchitectureModel{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalModel(data)
}

// WriteModelFile writes a model to a JSON file.
func WriteModelFile(m ArchitectureModel, path string) error {
	data, err := MarshalModel(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
