package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/san-kum/kinorrt/internal/dynamo"
	"github.com/san-kum/kinorrt/internal/planner"
)

const (
	metadataFile = "metadata.json"
	pathFile     = "path.csv"
	statesFile   = "states.csv"
	treeFile     = "tree.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type ObstacleRecord struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// RunMetadata describes one saved run. The caller fills the scenario fields;
// Save fills the identity and outcome fields.
type RunMetadata struct {
	ID        string    `json:"id"`
	Scenario  string    `json:"scenario"`
	Model     string    `json:"model"`
	Layout    string    `json:"layout"`
	Timestamp time.Time `json:"timestamp"`
	Seed      int64     `json:"seed"`

	StepSize     float64       `json:"step_size"`
	MaxDist      float64       `json:"max_dist"`
	Bias         float64       `json:"bias"`
	Budget       time.Duration `json:"budget_ns"`
	Method       string        `json:"method"`
	Subintervals int           `json:"subintervals"`

	Start      []float64        `json:"start"`
	Goal       []float64        `json:"goal"`
	GoalRadius float64          `json:"goal_radius"`
	Obstacles  []ObstacleRecord `json:"obstacles"`
	StateNames []string         `json:"state_names"`
	Workspace  orb.Bound        `json:"workspace"`

	Success    bool          `json:"success"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	TreeSize   int           `json:"tree_size"`
	Iterations int           `json:"iterations"`
	PathLength float64       `json:"path_length"`
}

// TreeRecord is one tree node as stored in tree.csv.
type TreeRecord struct {
	X, Y   float64
	Parent int
}

func newRunID(scenario string) string {
	if scenario == "" {
		scenario = "run"
	}
	return fmt.Sprintf("%s_%s", scenario, uuid.NewString()[:8])
}

// Save writes the metadata, path, path states and tree of a run and returns
// its ID. tree may be nil.
func (s *Store) Save(meta RunMetadata, sol *planner.Solution, tree *planner.Tree) (string, error) {
	meta.ID = newRunID(meta.Scenario)
	meta.Timestamp = time.Now()
	meta.Success = sol.Success
	meta.Elapsed = sol.Elapsed
	meta.TreeSize = sol.TreeSize
	meta.Iterations = sol.Iterations
	meta.PathLength = sol.PathLength()

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	pathRows := make([][]string, len(sol.Path))
	for i, p := range sol.Path {
		pathRows[i] = []string{formatFloat(p.X()), formatFloat(p.Y())}
	}
	if err := writeCSV(filepath.Join(runDir, pathFile), []string{"x", "y"}, pathRows); err != nil {
		return "", err
	}

	header := stateHeader(meta.StateNames, sol.States)
	stateRows := make([][]string, len(sol.States))
	for i, st := range sol.States {
		row := make([]string, len(st))
		for j, v := range st {
			row[j] = formatFloat(v)
		}
		stateRows[i] = row
	}
	if err := writeCSV(filepath.Join(runDir, statesFile), header, stateRows); err != nil {
		return "", err
	}

	var treeRows [][]string
	if tree != nil {
		positions := tree.Positions()
		parents := tree.Parents()
		treeRows = make([][]string, len(positions))
		for i, p := range positions {
			treeRows[i] = []string{formatFloat(p.X()), formatFloat(p.Y()), strconv.Itoa(parents[i])}
		}
	}
	if err := writeCSV(filepath.Join(runDir, treeFile), []string{"x", "y", "parent"}, treeRows); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadPath(runID string) (orb.LineString, error) {
	rows, err := readCSV(filepath.Join(s.baseDir, runID, pathFile))
	if err != nil {
		return nil, err
	}
	path := make(orb.LineString, 0, len(rows))
	for i, row := range rows {
		vals, err := parseRow(row, 2)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", pathFile, i+2, err)
		}
		path = append(path, orb.Point{vals[0], vals[1]})
	}
	return path, nil
}

func (s *Store) LoadStates(runID string) ([]dynamo.State, error) {
	rows, err := readCSV(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	states := make([]dynamo.State, 0, len(rows))
	for i, row := range rows {
		vals, err := parseRow(row, len(row))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", statesFile, i+2, err)
		}
		states = append(states, dynamo.State(vals))
	}
	return states, nil
}

func (s *Store) LoadTree(runID string) ([]TreeRecord, error) {
	rows, err := readCSV(filepath.Join(s.baseDir, runID, treeFile))
	if err != nil {
		return nil, err
	}
	nodes := make([]TreeRecord, 0, len(rows))
	for i, row := range rows {
		vals, err := parseRow(row, 3)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", treeFile, i+2, err)
		}
		nodes = append(nodes, TreeRecord{X: vals[0], Y: vals[1], Parent: int(vals[2])})
	}
	return nodes, nil
}

func stateHeader(names []string, states []dynamo.State) []string {
	if len(names) > 0 {
		return names
	}
	if len(states) == 0 {
		return nil
	}
	header := make([]string, len(states[0]))
	for i := range header {
		header[i] = fmt.Sprintf("x%d", i)
	}
	return header
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseRow(row []string, want int) ([]float64, error) {
	if len(row) != want {
		return nil, fmt.Errorf("expected %d fields, got %d", want, len(row))
	}
	out := make([]float64, len(row))
	for i, field := range row {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if header != nil {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

// readCSV returns the records after the header line.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}
