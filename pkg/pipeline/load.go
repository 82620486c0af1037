package pipeline

import (
	"fmt"
	"io"

	"github.com/matzehuels/waveplan/pkg/dag"
	"github.com/matzehuels/waveplan/pkg/errors"
	wio "github.com/matzehuels/waveplan/pkg/io"
)

// Load reads the inventory at path and builds its graph. The format is
// chosen by file extension. Errors carry a [errors.Code].
func Load(path string) (*dag.Graph, wio.PlanConfig, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, wio.PlanConfig{}, err
	}
	inv, err := wio.Import(path)
	if err != nil {
		return nil, wio.PlanConfig{}, errors.FromGraph(err)
	}
	return build(inv)
}

// Decode reads an inventory in the given format ("json", "toml" or "csv")
// from r and builds its graph. Errors carry a [errors.Code].
func Decode(r io.Reader, format string) (*dag.Graph, wio.PlanConfig, error) {
	var (
		inv *wio.Inventory
		err error
	)
	switch format {
	case "", "json":
		inv, err = wio.DecodeJSON(r)
	case "toml":
		inv, err = wio.DecodeTOML(r)
	case "csv":
		inv, err = wio.DecodeCSV(r)
	default:
		return nil, wio.PlanConfig{}, errors.Wrap(errors.ErrCodeUnsupported, wio.ErrUnsupportedFormat,
			"unsupported inventory format %q", format)
	}
	if err != nil {
		return nil, wio.PlanConfig{}, errors.FromGraph(err)
	}
	return build(inv)
}

func build(inv *wio.Inventory) (*dag.Graph, wio.PlanConfig, error) {
	g, err := inv.Graph()
	if err != nil {
		return nil, wio.PlanConfig{}, errors.FromGraph(fmt.Errorf("build graph: %w", err))
	}
	return g, inv.Plan, nil
}
