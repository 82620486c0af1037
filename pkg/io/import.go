package io

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/waveplan/pkg/dag"
)

var (
	// ErrUnsupportedFormat is returned by [Import] for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported inventory format")

	// ErrMalformed wraps every error caused by input that cannot be decoded.
	ErrMalformed = errors.New("malformed inventory")
)

// CSV column names of the asset register export.
const (
	ColumnID           = "App_ID"
	ColumnDependencies = "Dependencies"
)

// dependsOnAll marks an application that depends on the whole platform.
const dependsOnAll = "*ALL*"

// DecodeJSON decodes a JSON inventory from r. Unknown fields are rejected so
// that misspelled keys such as "depends-on" do not silently drop edges.
// DecodeJSON does not close r.
func DecodeJSON(r io.Reader) (*Inventory, error) {
	var inv Inventory
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&inv); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return &inv, nil
}

// DecodeTOML decodes a TOML inventory from r. Keys that do not map to an
// inventory field are rejected. DecodeTOML does not close r.
func DecodeTOML(r io.Reader) (*Inventory, error) {
	var inv Inventory
	md, err := toml.NewDecoder(r).Decode(&inv)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %s", ErrMalformed, undecoded[0])
	}
	return &inv, nil
}

// DecodeCSV decodes an asset register export from r. The header must contain
// [ColumnID] and [ColumnDependencies]; all other columns become metadata.
func DecodeCSV(r io.Reader) (*Inventory, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformed)
	}

	header := records[0]
	idCol, depCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case ColumnID:
			idCol = i
		case ColumnDependencies:
			depCol = i
		}
	}
	if idCol < 0 || depCol < 0 {
		return nil, fmt.Errorf("%w: header needs %s and %s columns", ErrMalformed, ColumnID, ColumnDependencies)
	}

	inv := &Inventory{Nodes: make([]Application, 0, len(records)-1)}
	for line, rec := range records[1:] {
		a := Application{ID: strings.TrimSpace(rec[idCol]), Meta: dag.Metadata{}}
		if a.ID == "" {
			return nil, fmt.Errorf("%w: row %d: empty %s", ErrMalformed, line+2, ColumnID)
		}
		for i, v := range rec {
			switch i {
			case idCol:
			case depCol:
				a.DependsOn = splitDependencies(v)
			default:
				a.Meta[strings.TrimSpace(header[i])] = v
			}
		}
		inv.Nodes = append(inv.Nodes, a)
	}
	return inv, nil
}

func splitDependencies(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == dependsOnAll {
		return nil
	}
	var ids []string
	for _, dep := range strings.Split(s, ",") {
		if dep = strings.TrimSpace(dep); dep != "" {
			ids = append(ids, dep)
		}
	}
	return ids
}

// ReadJSON decodes a JSON inventory from r and builds its graph.
//
// ReadJSON returns an error if the JSON is malformed, a node ID is empty or
// repeated, an edge references an unknown node, or an application depends on
// itself. Errors are wrapped with the offending node or edge; use errors.Is
// with the dag sentinels to classify them.
func ReadJSON(r io.Reader) (*dag.Graph, error) {
	inv, err := DecodeJSON(r)
	if err != nil {
		return nil, err
	}
	return inv.Graph()
}

// ReadTOML is [ReadJSON] for TOML input.
func ReadTOML(r io.Reader) (*dag.Graph, error) {
	inv, err := DecodeTOML(r)
	if err != nil {
		return nil, err
	}
	return inv.Graph()
}

// ReadCSV is [ReadJSON] for the asset register CSV export.
func ReadCSV(r io.Reader) (*dag.Graph, error) {
	inv, err := DecodeCSV(r)
	if err != nil {
		return nil, err
	}
	return inv.Graph()
}

// ImportJSON reads the JSON inventory at path and builds its graph.
func ImportJSON(path string) (*dag.Graph, error) {
	return importFile(path, ReadJSON)
}

// ImportTOML reads the TOML inventory at path and builds its graph.
func ImportTOML(path string) (*dag.Graph, error) {
	return importFile(path, ReadTOML)
}

func importFile(path string, read func(io.Reader) (*dag.Graph, error)) (*dag.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return read(f)
}

// Import decodes the inventory at path, choosing the format by extension:
// .json, .toml or .csv.
func Import(path string) (*Inventory, error) {
	var decode func(io.Reader) (*Inventory, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		decode = DecodeJSON
	case ".toml":
		decode = DecodeTOML
	case ".csv":
		decode = DecodeCSV
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	inv, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inv, nil
}
