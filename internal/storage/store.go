package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/coupledmode/internal/analysis"
	"github.com/san-kum/coupledmode/internal/config"
	"github.com/san-kum/coupledmode/internal/coupling"
	"go.uber.org/zap"
)

const (
	metadataFile = "metadata.json"
	resultFile   = "result.csv"
	stagePrefix  = ".staging-"
)

type Store struct {
	baseDir string
	logger  *zap.Logger
}

// New returns a store rooted at baseDir. A nil logger discards output.
func New(baseDir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{baseDir: baseDir, logger: logger}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Config    config.Config    `json:"config"`
	Steps     int              `json:"steps"`
	Elapsed   time.Duration    `json:"elapsed_ns"`
	Summary   analysis.Summary `json:"summary"`
}

// Save writes metadata.json and result.csv into a new run directory and
// returns the run id. Files are staged in a hidden directory that is renamed
// into place only once both are written.
func (s *Store) Save(cfg *config.Config, records []coupling.Record, summary analysis.Summary, elapsed time.Duration) (runID string, err error) {
	runID = fmt.Sprintf("%s_%s", runName(cfg.Name), strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", err
	}
	stage, err := os.MkdirTemp(s.baseDir, stagePrefix+runID+"-")
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(stage)
		}
	}()

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Config:    *cfg,
		Steps:     len(records),
		Elapsed:   elapsed,
		Summary:   summary,
	}
	if err := writeJSON(filepath.Join(stage, metadataFile), meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	if err := writeTableFile(filepath.Join(stage, resultFile), records); err != nil {
		return "", fmt.Errorf("write result table: %w", err)
	}

	if err := os.Chmod(stage, 0755); err != nil {
		return "", err
	}
	if err := os.Rename(stage, runDir); err != nil {
		return "", fmt.Errorf("publish run: %w", err)
	}

	s.logger.Debug("run saved", zap.String("id", runID), zap.String("dir", runDir), zap.Int("records", len(records)))
	return runID, nil
}

// runName reduces a config name to letters, digits, '-' and '_' so the run
// id is always a single path element inside the store.
func runName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if strings.Trim(clean, "_") == "" {
		return "sweep"
	}
	return clean
}

func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTableFile(path string, records []coupling.Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteTable(f, records)
}

// List returns the metadata of every readable run, newest first. Directories
// without valid metadata are skipped.
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
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Warn("skipping unreadable run", zap.String("dir", entry.Name()), zap.Error(err))
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
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
		return nil, fmt.Errorf("decode metadata of %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadRecords(runID string) ([]coupling.Record, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, resultFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadTable(f)
}
