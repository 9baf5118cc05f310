package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/rs/xid"

	"github.com/san-kum/odekit/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

// ErrRunNotFound is returned when no run with the given ID exists.
var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Timestamp time.Time          `json:"timestamp"`
	Method    string             `json:"method"`
	Adaptive  bool               `json:"adaptive"`
	Dt        float64            `json:"dt"`
	T0        float64            `json:"t0"`
	TF        float64            `json:"tf"`
	AbsTol    float64            `json:"abs_tol,omitempty"`
	RelTol    float64            `json:"rel_tol,omitempty"`
	Params    map[string]float64 `json:"params,omitempty"`
	Samples   int                `json:"samples"`
	Stats     dynamo.Stats       `json:"stats"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Save writes meta and the trajectory under a fresh run ID, which is
// returned. ID, Timestamp, Samples and Stats are filled in from the run.
func (s *Store) Save(meta RunMetadata, tr *dynamo.Trajectory) (string, error) {
	meta.ID = fmt.Sprintf("%s_%s", meta.Model, xid.New().String())
	meta.Timestamp = time.Now().UTC()
	meta.Samples = tr.Len()
	meta.Stats = tr.Stats()

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, statesFile), func(w io.Writer) error {
		return WriteCSV(w, tr)
	}); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns the metadata of every stored run, oldest first. Directories
// without readable metadata are skipped.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTrajectory reads the stored samples of a run back into a trajectory
// carrying the recorded stats.
func (s *Store) LoadTrajectory(runID string) (*dynamo.Trajectory, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tr, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	tr.SetStats(meta.Stats)
	return tr, nil
}

// WriteCSV writes a header row "t,x0,x1,..." followed by one row per
// sample. Values use the shortest representation that parses back exactly.
func WriteCSV(w io.Writer, tr *dynamo.Trajectory) error {
	cw := csv.NewWriter(w)

	header := []string{"t"}
	for i := 0; i < tr.Dim(); i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, 1+tr.Dim())
	for i := 0; i < tr.Len(); i++ {
		s := tr.At(i)
		row[0] = strconv.FormatFloat(s.T, 'g', -1, 64)
		for k, v := range s.X {
			row[k+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the format written by WriteCSV.
func ReadCSV(r io.Reader) (*dynamo.Trajectory, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("missing header")
	}

	dim := len(records[0]) - 1
	tr := dynamo.NewTrajectory(dim, len(records)-1)
	for i, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			vals[j] = v
		}
		if err := tr.Append(vals[0], dynamo.State(vals[1:])); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return tr, nil
}
