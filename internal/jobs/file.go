package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/resume-matcher/internal/models"
)

const jobsKey = "jobs"

// FileStore keeps job postings in a YAML or JSON document with a top level
// "jobs" list.
type FileStore struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: path, logger: logger}
}

func (s *FileStore) ListActive(_ context.Context, limit int) (*models.Jobs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, _, err := s.load()
	if err != nil {
		return nil, err
	}

	all.Keep(func(j *models.JobPosting) bool { return j.Active })
	all.SortByPostedDesc()
	if limit > 0 {
		all.Truncate(limit)
	}
	return all, nil
}

// All returns every posting in the file in file order, inactive ones included.
func (s *FileStore) All(_ context.Context) (*models.Jobs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, _, err := s.load()
	return all, err
}

func (s *FileStore) Get(_ context.Context, id string) (*models.JobPosting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, _, err := s.load()
	if err != nil {
		return nil, err
	}
	job := all.FindByID(id)
	if job == nil {
		return nil, fmt.Errorf("job %q: %w", id, models.ErrNotFound)
	}
	return job, nil
}

func (s *FileStore) CountActive(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, _, err := s.load()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, job := range all.Items {
		if job.Active {
			count++
		}
	}
	return count, nil
}

// Deactivate marks the job inactive and rewrites the file. Fields the store
// does not know about are preserved.
func (s *FileStore) Deactivate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, raw, err := s.load()
	if err != nil {
		return err
	}
	job := all.FindByID(id)
	if job == nil {
		return fmt.Errorf("job %q: %w", id, models.ErrNotFound)
	}
	job.Deactivate()

	items, _ := raw[jobsKey].([]any)
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if fmt.Sprint(m["id"]) == id {
			m["isActive"] = job.Active
		}
	}

	if err := s.write(raw); err != nil {
		return err
	}

	s.logger.Info("job deactivated",
		zap.String("job_id", id),
		zap.String("title", job.Title),
		zap.String("file", s.path),
	)
	return nil
}

func (s *FileStore) load() (*models.Jobs, map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading jobs file: %w", err)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("parsing jobs file %q: %w", s.path, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	items, ok := raw[jobsKey].([]any)
	if !ok && raw[jobsKey] != nil {
		return nil, nil, fmt.Errorf("jobs file %q: %q must be a list", s.path, jobsKey)
	}

	jobs := &models.Jobs{Items: make([]*models.JobPosting, 0, len(items))}
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		job, err := decodeJob(item)
		if err != nil {
			return nil, nil, fmt.Errorf("jobs file %q: entry %d: %w", s.path, i, err)
		}
		if _, dup := seen[job.ID]; dup {
			return nil, nil, fmt.Errorf("jobs file %q: duplicate job id %q", s.path, job.ID)
		}
		seen[job.ID] = struct{}{}
		jobs.Items = append(jobs.Items, job)
	}

	s.logger.Debug("jobs loaded", zap.String("file", s.path), zap.Int("count", jobs.Len()))

	return jobs, raw, nil
}

func decodeJob(item any) (*models.JobPosting, error) {
	job := models.NewJobPosting()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
		WeaklyTypedInput: true,
		Result:           job,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(item); err != nil {
		return nil, err
	}

	if strings.TrimSpace(job.ID) == "" {
		return nil, fmt.Errorf("job id is required")
	}
	if err := job.SalaryRange.Validate(); err != nil {
		return nil, fmt.Errorf("job %q: %w", job.ID, err)
	}

	job.Normalize()
	return job, nil
}

// write replaces the file through a temporary file in the same directory.
func (s *FileStore) write(raw map[string]any) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(s.path), ".json") {
		data, err = json.MarshalIndent(raw, "", "  ")
	} else {
		data, err = yaml.Marshal(raw)
	}
	if err != nil {
		return fmt.Errorf("encoding jobs file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".jobs_*")
	if err != nil {
		return fmt.Errorf("creating temporary jobs file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing jobs file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing jobs file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing jobs file: %w", err)
	}
	return nil
}
