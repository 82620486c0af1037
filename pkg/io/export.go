package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/waveplan/pkg/dag"
)

// WriteJSON encodes g as a canonical JSON inventory and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(g *dag.Graph, w io.Writer) error {
	return FromGraph(g, PlanConfig{}).WriteJSON(w)
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *dag.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// WriteTOML encodes g as a canonical TOML inventory and writes it to w.
func WriteTOML(g *dag.Graph, w io.Writer) error {
	return FromGraph(g, PlanConfig{}).WriteTOML(w)
}

// WriteJSON writes the inventory as indented JSON.
func (inv *Inventory) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(inv); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteTOML writes the inventory as TOML.
func (inv *Inventory) WriteTOML(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(inv); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
