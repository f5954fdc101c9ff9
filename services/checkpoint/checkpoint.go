package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"

	"substackscraper/internal/scraper"
	"substackscraper/logger"
	apperrors "substackscraper/pkg/errors"
)

// DefaultFile is the checkpoint location when none is configured
const DefaultFile = ".checkpoint.json"

// Snapshot is the persisted shape of one crawl result
type Snapshot struct {
	URL           string                 `json:"url"`
	TotalArticles int                    `json:"total_articles"`
	Articles      []scraper.Article      `json:"articles"`
	Metadata      map[string]interface{} `json:"metadata"`
}

// Store persists crawl snapshots so a run can resume without re-crawling
type Store struct {
	file string
	log  *logger.Logger
}

// NewStore creates a checkpoint store backed by the given file
func NewStore(file string) *Store {
	if file == "" {
		file = DefaultFile
	}
	return &Store{
		file: file,
		log:  logger.ForCheckpoint(),
	}
}

// Save persists a snapshot of the crawl
func (s *Store) Save(url string, articles []scraper.Article, metadata map[string]interface{}) error {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	snap := Snapshot{
		URL:           url,
		TotalArticles: len(articles),
		Articles:      articles,
		Metadata:      metadata,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode checkpoint")
		return apperrors.NewCheckpoint("failed to encode checkpoint", err)
	}

	if err := os.WriteFile(s.file, data, 0o644); err != nil {
		s.log.Error().Err(err).Str("file", s.file).Msg("failed to save checkpoint")
		return apperrors.NewCheckpoint(fmt.Sprintf("failed to save checkpoint to %s", s.file), err)
	}

	s.log.Info().Int("articles", len(articles)).Str("file", s.file).Msg("checkpoint saved")
	return nil
}

// Load returns the last snapshot, or an empty one when no checkpoint exists
func (s *Store) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.file)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Info().Str("file", s.file).Msg("no checkpoint file found")
			return &Snapshot{}, nil
		}
		return &Snapshot{}, apperrors.NewCheckpoint(fmt.Sprintf("failed to read checkpoint from %s", s.file), err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return &Snapshot{}, apperrors.NewCheckpoint(fmt.Sprintf("failed to decode checkpoint from %s", s.file), err)
	}

	s.log.Info().Int("articles", snap.TotalArticles).Msg("checkpoint loaded")
	return &snap, nil
}

// RestoreArticles reconstructs the article list from the snapshot
func (s *Store) RestoreArticles() ([]scraper.Article, error) {
	snap, err := s.Load()
	if err != nil {
		return nil, err
	}
	return snap.Articles, nil
}

// Exists reports whether a checkpoint file is present
func (s *Store) Exists() bool {
	_, err := os.Stat(s.file)
	return err == nil
}

// Clear deletes the checkpoint file if present
func (s *Store) Clear() error {
	if !s.Exists() {
		return nil
	}
	if err := os.Remove(s.file); err != nil {
		s.log.Error().Err(err).Str("file", s.file).Msg("failed to clear checkpoint")
		return apperrors.NewCheckpoint("failed to clear checkpoint", err)
	}
	s.log.Info().Msg("checkpoint cleared")
	return nil
}
