package server

import (
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/waveplan/pkg/buildinfo"
	"github.com/matzehuels/waveplan/pkg/dag"
	"github.com/matzehuels/waveplan/pkg/dag/analyze"
	werrors "github.com/matzehuels/waveplan/pkg/errors"
	wio "github.com/matzehuels/waveplan/pkg/io"
	"github.com/matzehuels/waveplan/pkg/pipeline"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type planResponse struct {
	*pipeline.Result
	Warnings []string `json:"warnings"`
}

type cyclesResponse struct {
	Node   string     `json:"node,omitempty"`
	Count  int        `json:"count"`
	Cycles [][]string `json:"cycles"`
}

type pathResponse struct {
	Path   []string `json:"path"`
	Length int      `json:"length"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	opts, err := planOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, cfg, err := s.decodeInventory(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.ApplyPlanConfig(cfg)
	opts.Logger = s.logger.With("request_id", middleware.GetReqID(r.Context()))

	res, err := s.runner.Run(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, werrors.FromGraph(err))
		return
	}

	warnings := res.Warnings()
	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, http.StatusOK, planResponse{Result: res, Warnings: warnings})
}

func (s *Server) handleCycles(w http.ResponseWriter, r *http.Request) {
	node := r.URL.Query().Get("node")
	if node != "" {
		if err := werrors.ValidateNodeID(node); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	g, _, err := s.decodeInventory(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var cycles [][]string
	if node != "" {
		if !g.HasNode(node) {
			s.writeError(w, r, werrors.New(werrors.ErrCodeInvalidInput, "unknown node %q", node))
			return
		}
		cycles = analyze.CyclesThrough(g, node)
	} else {
		cycles = analyze.FindCycles(g)
	}
	if cycles == nil {
		cycles = [][]string{}
	}
	writeJSON(w, http.StatusOK, cyclesResponse{Node: node, Count: len(cycles), Cycles: cycles})
}

func (s *Server) handleCriticalPath(w http.ResponseWriter, r *http.Request) {
	g, _, err := s.decodeInventory(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	path, err := analyze.LongestPath(g)
	if err != nil {
		s.writeError(w, r, werrors.FromGraph(err))
		return
	}
	if path == nil {
		path = []string{}
	}
	writeJSON(w, http.StatusOK, pathResponse{Path: path, Length: len(path)})
}

// renderContentTypes maps each diagram format to its response media type.
var renderContentTypes = map[string]string{
	pipeline.FormatDOT: "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
	pipeline.FormatPDF: "application/pdf",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	output := strings.ToLower(q.Get("output"))
	if output == "" {
		output = pipeline.FormatSVG
	}
	if err := werrors.ValidateFormat(output, pipeline.FormatDOT, pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF); err != nil {
		s.writeError(w, r, err)
		return
	}
	detailed, err := boolParam(q, "detailed")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	noWaves, err := boolParam(q, "no_waves")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := planOptions(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, cfg, err := s.decodeInventory(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.ApplyPlanConfig(cfg)
	logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))
	opts.Logger = logger

	res, err := s.runner.Run(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, werrors.FromGraph(err))
		return
	}
	artifacts, err := pipeline.Render(r.Context(), res, pipeline.RenderOptions{
		Formats:  []string{output},
		Detailed: detailed,
		NoWaves:  noWaves,
		Cache:    s.cfg.Cache,
		Logger:   logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", renderContentTypes[output])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[output])
}

// boolParam parses an optional boolean query parameter.
func boolParam(q url.Values, key string) (bool, error) {
	v := q.Get(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, werrors.New(werrors.ErrCodeInvalidInput, "%s must be a boolean, got %q", key, v)
	}
	return b, nil
}

// decodeInventory reads the request body as an inventory and builds its graph.
func (s *Server) decodeInventory(w http.ResponseWriter, r *http.Request) (*dag.Graph, wio.PlanConfig, error) {
	format, err := inventoryFormat(r)
	if err != nil {
		return nil, wio.PlanConfig{}, err
	}
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer body.Close()
	return pipeline.Decode(body, format)
}

// inventoryFormat selects the body format: the format query parameter wins
// over Content-Type, and a missing Content-Type means JSON.
func inventoryFormat(r *http.Request) (string, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		return strings.ToLower(f), nil
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return "json", nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", werrors.Wrap(werrors.ErrCodeInvalidInput, err, "invalid Content-Type %q", ct)
	}
	switch mt {
	case "application/json":
		return "json", nil
	case "application/toml", "text/toml":
		return "toml", nil
	case "text/csv":
		return "csv", nil
	}
	return "", werrors.Wrap(werrors.ErrCodeUnsupported, wio.ErrUnsupportedFormat, "unsupported content type %q", mt)
}

// planOptions reads planning overrides from the query string.
func planOptions(q url.Values) (pipeline.Options, error) {
	var opts pipeline.Options
	for _, p := range []struct {
		key string
		dst *int
	}{
		{"weeks_per_wave", &opts.WeeksPerWave},
		{"concurrency", &opts.Concurrency},
		{"top", &opts.TopCoupling},
	} {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, werrors.New(werrors.ErrCodeInvalidInput, "%s must be a non-negative integer, got %q", p.key, v)
		}
		*p.dst = n
	}
	return opts, nil
}
