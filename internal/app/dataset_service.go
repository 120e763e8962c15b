package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"vista/internal/model"
	"vista/internal/report"
	"vista/internal/summary"
)

// ErrNoData reports a report request for a user without any stored dataset.
var ErrNoData = errors.New("no data found")

// DatasetStore is the persistence surface DatasetService needs.
type DatasetStore interface {
	CreateCapped(ctx context.Context, dataset *model.Dataset) error
	ListByUserID(ctx context.Context, userID uint) ([]model.Dataset, error)
	LatestByUserID(ctx context.Context, userID uint) (*model.Dataset, error)
}

// HistoryItem is one entry of a user's upload history.
type HistoryItem struct {
	ID   uint      `json:"id"`
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

type DatasetService struct {
	store DatasetStore
	log   zerolog.Logger

	// Serializes same-user uploads within this process; together with the
	// store's transactional evict+insert this keeps the history cap exact
	// under concurrent uploads.
	mu        sync.Mutex
	userLocks map[uint]*sync.Mutex
}

func NewDatasetService(store DatasetStore, log zerolog.Logger) *DatasetService {
	return &DatasetService{
		store:     store,
		log:       log.With().Str("service", "dataset").Logger(),
		userLocks: make(map[uint]*sync.Mutex),
	}
}

// Upload parses the CSV payload, persists the resulting summary under the
// user's capped history, and returns the summary. A persistence failure
// after a successful parse discards the summary; there is no retry.
func (s *DatasetService) Upload(ctx context.Context, userID uint, fileName string, data []byte) (*summary.Summary, error) {
	if userID == 0 || fileName == "" {
		return nil, ErrInvalidInput
	}

	sum, err := summary.Process(data)
	if err != nil {
		s.log.Error().Err(err).Uint("user_id", userID).Str("file", fileName).Msg("csv processing failed")
		return nil, err
	}

	blob, err := sum.Encode()
	if err != nil {
		return nil, err
	}

	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	dataset := &model.Dataset{
		UserID:   userID,
		FileName: fileName,
		Summary:  datatypes.JSON(blob),
	}
	if err := s.store.CreateCapped(ctx, dataset); err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("user_id", userID).
		Str("file", fileName).
		Int("rows", sum.TotalCount).
		Msg("dataset processed")
	return sum, nil
}

// History lists the user's stored uploads, newest first.
func (s *DatasetService) History(ctx context.Context, userID uint) ([]HistoryItem, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	datasets, err := s.store.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]HistoryItem, 0, len(datasets))
	for _, ds := range datasets {
		items = append(items, HistoryItem{
			ID:   ds.ID,
			Name: ds.FileName,
			Date: ds.CreatedAt,
		})
	}
	return items, nil
}

// LatestReport renders the PDF report for the user's most recent dataset.
// It returns ErrNoData when the user has no stored records.
func (s *DatasetService) LatestReport(ctx context.Context, userID uint, username string) (fileName string, pdf []byte, err error) {
	if userID == 0 {
		return "", nil, ErrInvalidInput
	}

	latest, err := s.store.LatestByUserID(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	if latest == nil {
		return "", nil, ErrNoData
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, username, latest); err != nil {
		s.log.Error().Err(err).Uint("user_id", userID).Msg("pdf generation failed")
		return "", nil, fmt.Errorf("render report failed: %w", err)
	}
	return fmt.Sprintf("Report_%s.pdf", latest.FileName), buf.Bytes(), nil
}

func (s *DatasetService) lockFor(userID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}
