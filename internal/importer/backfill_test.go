package importer

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"core/internal/config"
	"core/internal/dialog"
	"core/internal/logger"
	"core/internal/model"
	"core/internal/service"
	"core/internal/transport"
)

func testLogger() logger.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type memStore struct {
	listings []model.ListingRecord
}

func (s *memStore) ListingExists(_ context.Context, sourceID int64) (bool, error) {
	for _, l := range s.listings {
		if l.SourceID == sourceID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) AppendListing(_ context.Context, rec model.ListingRecord) error {
	s.listings = append(s.listings, rec)
	return nil
}

func (s *memStore) Snapshot(_ context.Context) ([]model.ListingRecord, error) {
	return s.listings, nil
}

func (s *memStore) AppendLead(_ context.Context, _ model.LeadRecord) error { return nil }

type silentMessenger struct{}

func (silentMessenger) SendMessage(context.Context, int64, string, *transport.InlineKeyboard) error {
	return nil
}
func (silentMessenger) AnswerCallback(context.Context, string) error { return nil }

func newTestEngine(store *memStore) *service.Engine {
	return service.NewEngine(store, store, silentMessenger{}, nil,
		service.NewRanker(0.2, 0.5, 6), dialog.NewMachine(),
		&config.TelegramConfig{}, testLogger())
}

// mapSource serves canned history per channel ref.
type mapSource struct {
	history map[string][]ArchivedMessage
	err     error
}

func (s *mapSource) History(_ context.Context, channel string, _ int) ([]ArchivedMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.history[channel], nil
}

func TestImporterRun(t *testing.T) {
	posted := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	source := &mapSource{history: map[string][]ArchivedMessage{
		"cozyasia": {
			{ID: 1, ChatID: -1001234567890, Date: posted, Text: "Вилла в Ламае\n45000 бат/мес"},
			{ID: 2, ChatID: -1001234567890, Date: posted, Text: "Дом в Маенаме\n30000 бат/мес"},
			{ID: 1, ChatID: -1001234567890, Date: posted, Text: "Вилла в Ламае\n45000 бат/мес"}, // duplicate id
			{ID: 3, ChatID: -1001234567890, Date: posted, Text: "   "},                           // empty
		},
	}}
	store := &memStore{}
	imp := NewImporter(source, newTestEngine(store), 100, 100, testLogger())

	added, err := imp.Run(context.Background(), "@cozyasia", 1000)
	if err != nil {
		t.Fatal(err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2 (duplicate and empty skipped)", added)
	}
	if len(store.listings) != 2 {
		t.Fatalf("stored = %d, want 2", len(store.listings))
	}
	if store.listings[0].Location != "lamai" || store.listings[1].Location != "maenam" {
		t.Errorf("extraction during backfill failed: %+v", store.listings)
	}
}

func TestImporterSkipsFailingChannel(t *testing.T) {
	posted := time.Now().UTC()
	source := &mapSource{history: map[string][]ArchivedMessage{
		"good": {{ID: 10, ChatID: -100555, Date: posted, Text: "Бопхут, дом, 35000 бат"}},
	}}
	store := &memStore{}
	imp := NewImporter(source, newTestEngine(store), 100, 100, testLogger())

	// "bad" has no history entry and yields nothing; a hard source error on
	// one channel must not abort the others either.
	added, err := imp.Run(context.Background(), "bad,good", 100)
	if err != nil {
		t.Fatal(err)
	}
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}
}

func TestImporterSourceError(t *testing.T) {
	source := &mapSource{err: errors.New("flood wait")}
	store := &memStore{}
	imp := NewImporter(source, newTestEngine(store), 100, 100, testLogger())

	added, err := imp.Run(context.Background(), "cozyasia", 100)
	if err != nil {
		t.Fatalf("per-channel errors are isolated, got %v", err)
	}
	if added != 0 || len(store.listings) != 0 {
		t.Errorf("nothing should be stored, added=%d stored=%d", added, len(store.listings))
	}
}
