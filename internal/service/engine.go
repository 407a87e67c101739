package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"core/internal/config"
	"core/internal/dialog"
	"core/internal/extract"
	"core/internal/logger"
	"core/internal/model"
	"core/internal/transport"
	"core/internal/utils"
)

// InventoryStore is the append-only listing store collaborator.
type InventoryStore interface {
	ListingExists(ctx context.Context, sourceID int64) (bool, error)
	AppendListing(ctx context.Context, rec model.ListingRecord) error
	Snapshot(ctx context.Context) ([]model.ListingRecord, error)
}

// LeadStore is the append-only inquiry store collaborator.
type LeadStore interface {
	AppendLead(ctx context.Context, lead model.LeadRecord) error
}

// Messenger delivers outbound replies.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *transport.InlineKeyboard) error
	AnswerCallback(ctx context.Context, callbackID string) error
}

// Replies shown outside the dialogue prompts.
const (
	replyNoMatch = "Пока ничего подходящего не нашёл 😔\n" +
		"Я передал запрос менеджеру — он подберёт варианты вручную и свяжется с вами."
	replyResultsHeader = "Вот что нашлось по вашему запросу:"
	replyCancelHint    = "Сейчас нет активного опроса. Введите /rent чтобы начать."
)

// Engine routes transport events through extraction, matching and lead
// capture. It is invoked synchronously, one event at a time per chat.
type Engine struct {
	inventory InventoryStore
	leads     LeadStore
	messenger Messenger
	enricher  Enricher // nil means heuristics only
	ranker    *Ranker
	dialogs   *dialog.Machine
	log       logger.Logger

	publicChannel string
	managerChatID int64
	greeting      string
}

// NewEngine wires the engine with its collaborators. enricher may be nil.
func NewEngine(
	inventory InventoryStore,
	leads LeadStore,
	messenger Messenger,
	enricher Enricher,
	ranker *Ranker,
	dialogs *dialog.Machine,
	tg *config.TelegramConfig,
	log logger.Logger,
) *Engine {
	return &Engine{
		inventory:     inventory,
		leads:         leads,
		messenger:     messenger,
		enricher:      enricher,
		ranker:        ranker,
		dialogs:       dialogs,
		log:           log,
		publicChannel: strings.TrimPrefix(tg.PublicChannel, "@"),
		managerChatID: tg.ManagerChatID,
		greeting:      tg.Greeting,
	}
}

// HandleUpdate dispatches one inbound transport event.
func (e *Engine) HandleUpdate(ctx context.Context, u transport.Update) {
	switch {
	case u.ChannelPost != nil:
		if err := e.IngestChannelPost(ctx, u.ChannelPost); err != nil {
			e.log.WithError(err).WithField("message_id", u.ChannelPost.MessageID).
				Error("channel post ingestion failed")
		}
	case u.CallbackQuery != nil:
		e.handleCallback(ctx, u.CallbackQuery)
	case u.Message != nil && u.Message.Chat.Type == "private":
		e.handleMessage(ctx, u.Message)
	}
}

// IngestChannelPost extracts and stores one channel listing. Ingesting an
// already seen message id is a no-op. Enrichment failures fall back to
// heuristic-only extraction.
func (e *Engine) IngestChannelPost(ctx context.Context, msg *transport.Message) error {
	if e.publicChannel != "" && !strings.EqualFold(msg.Chat.Username, e.publicChannel) {
		return nil
	}
	text := strings.TrimSpace(msg.Content())
	if text == "" {
		return nil
	}

	exists, err := e.inventory.ListingExists(ctx, msg.MessageID)
	if err != nil {
		return fmt.Errorf("dedup check failed: %w", err)
	}
	if exists {
		e.log.WithField("source_id", msg.MessageID).Debug("duplicate listing skipped")
		return nil
	}

	var overlay *model.ListingOverlay
	if e.enricher != nil {
		overlay, err = e.enricher.Extract(ctx, text)
		if err != nil {
			e.log.WithError(err).Warn("enrichment failed, using heuristics only")
			overlay = nil
		}
	}

	link := utils.MessageLink(msg.Chat.ID, msg.Chat.Username, msg.MessageID)
	rec := extract.BuildListing(msg.MessageID, postedAt(msg), text, link, overlay)
	if fileID := msg.LargestPhoto(); fileID != "" {
		rec.Images = model.StringList{fileID}
	}

	if err := e.inventory.AppendListing(ctx, rec); err != nil {
		return err
	}
	e.log.WithField("source_id", rec.SourceID).WithField("location", rec.Location).
		Info("listing stored")
	return nil
}

// IngestArchived stores one historical message with heuristic-only
// extraction. Returns false when the message is empty or already known.
func (e *Engine) IngestArchived(ctx context.Context, sourceID int64, postedAt time.Time, text string, chatID int64, chatUsername string) (bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, nil
	}
	exists, err := e.inventory.ListingExists(ctx, sourceID)
	if err != nil {
		return false, fmt.Errorf("dedup check failed: %w", err)
	}
	if exists {
		return false, nil
	}
	link := utils.MessageLink(chatID, chatUsername, sourceID)
	rec := extract.BuildListing(sourceID, postedAt, text, link, nil)
	if err := e.inventory.AppendListing(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}

// Match derives criteria from a free-text query and ranks the inventory
// against it, without capturing a lead. Serves the ops API.
func (e *Engine) Match(ctx context.Context, query string) (model.QueryCriteria, []model.MatchResult, error) {
	criteria := extract.CriteriaFromText(query)
	snapshot, err := e.inventory.Snapshot(ctx)
	if err != nil {
		return criteria, nil, err
	}
	return criteria, e.ranker.Rank(criteria, snapshot), nil
}

func (e *Engine) handleMessage(ctx context.Context, msg *transport.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Content())

	switch {
	case strings.HasPrefix(text, "/start"):
		e.reply(ctx, chatID, e.greeting, nil)
	case strings.HasPrefix(text, "/rent"):
		e.reply(ctx, chatID, e.dialogs.Begin(chatID), nil)
	case strings.HasPrefix(text, "/cancel"):
		if e.dialogs.Cancel(chatID) {
			e.reply(ctx, chatID, dialog.ReplyCancelled, nil)
		} else {
			e.reply(ctx, chatID, replyCancelHint, nil)
		}
	case strings.HasPrefix(text, "/"):
		// unknown command, ignore
	case e.dialogs.Active(chatID):
		e.advanceDialogue(ctx, chatID, msg.From.DisplayName(), text)
	case text != "":
		e.freeTextSearch(ctx, chatID, msg.From.DisplayName(), text)
	}
}

func (e *Engine) advanceDialogue(ctx context.Context, chatID int64, username, text string) {
	prompt, answers, needButtons, ok := e.dialogs.Input(chatID, text)
	if !ok {
		return
	}
	if answers != nil {
		criteria := extract.CriteriaFromDialogue(*answers)
		e.capture(ctx, chatID, username, serializeCriteria(criteria), criteria)
		return
	}
	e.reply(ctx, chatID, prompt, petKeyboard(needButtons))
}

func (e *Engine) handleCallback(ctx context.Context, cb *transport.CallbackQuery) {
	if err := e.messenger.AnswerCallback(ctx, cb.ID); err != nil {
		e.log.WithError(err).Debug("callback ack failed")
	}
	chatID := cb.From.ID
	if cb.Message != nil {
		chatID = cb.Message.Chat.ID
	}
	prompt, ok := e.dialogs.Choose(chatID, cb.Data)
	if !ok {
		return
	}
	e.reply(ctx, chatID, prompt, nil)
}

// freeTextSearch runs the criteria → matcher pipeline for one direct message
// and captures a lead.
func (e *Engine) freeTextSearch(ctx context.Context, chatID int64, username, text string) {
	criteria := extract.CriteriaFromText(text)
	e.capture(ctx, chatID, username, text, criteria)
}

// capture ranks the inventory, records the lead and replies. Exactly one
// lead per inbound request or completed dialogue.
func (e *Engine) capture(ctx context.Context, chatID int64, username, query string, criteria model.QueryCriteria) {
	snapshot, err := e.inventory.Snapshot(ctx)
	if err != nil {
		e.log.WithError(err).Error("inventory snapshot failed")
		e.reply(ctx, chatID, replyNoMatch, nil)
		return
	}
	results := e.ranker.Rank(criteria, snapshot)

	now := time.Now().UTC()
	lead := model.LeadRecord{
		ID:         model.NewLeadID(now),
		CreatedAt:  now,
		ChatID:     chatID,
		Username:   username,
		Query:      query,
		MatchedIDs: model.JoinMatchedIDs(results),
		Status:     model.LeadStatusNew,
	}
	if err := e.leads.AppendLead(ctx, lead); err != nil {
		e.log.WithError(err).Error("lead append failed")
	}

	if len(results) == 0 {
		e.reply(ctx, chatID, replyNoMatch, nil)
	} else {
		e.reply(ctx, chatID, formatDigest(results), nil)
	}
	e.notifyManager(ctx, lead, len(results))
}

// notifyManager forwards the lead to the operator chat, best-effort.
func (e *Engine) notifyManager(ctx context.Context, lead model.LeadRecord, matched int) {
	if e.managerChatID == 0 {
		return
	}
	text := fmt.Sprintf(
		"Новая заявка 🧾\nЗапрос: %s\nПодобрано вариантов: %d\nПользователь: @%s (id %d)\nLead: %s",
		lead.Query, matched, lead.Username, lead.ChatID, lead.ID,
	)
	if err := e.messenger.SendMessage(ctx, e.managerChatID, text, nil); err != nil {
		e.log.WithError(err).Warn("manager notification failed")
	}
}

func (e *Engine) reply(ctx context.Context, chatID int64, text string, keyboard *transport.InlineKeyboard) {
	if err := e.messenger.SendMessage(ctx, chatID, text, keyboard); err != nil {
		e.log.WithError(err).WithField("chat_id", chatID).Error("reply failed")
	}
}

// formatDigest renders the ranked listings for the renter.
func formatDigest(results []model.MatchResult) string {
	var b strings.Builder
	b.WriteString(replyResultsHeader)
	b.WriteString("\n")
	for i, r := range results {
		l := r.Listing
		b.WriteString(fmt.Sprintf("\n%d. *%s*\n", i+1, l.Title))
		var facts []string
		if l.Location != "" {
			facts = append(facts, "📍 "+l.Location)
		}
		if l.Bedrooms != nil {
			facts = append(facts, fmt.Sprintf("🛏 %d", *l.Bedrooms))
		}
		if l.PriceMonth != nil {
			facts = append(facts, fmt.Sprintf("💰 %d бат/мес", *l.PriceMonth))
		}
		if len(facts) > 0 {
			b.WriteString("   " + strings.Join(facts, " · ") + "\n")
		}
		if l.Link != "" {
			b.WriteString("   " + l.Link + "\n")
		}
	}
	return b.String()
}

// serializeCriteria renders dialogue-built criteria as the lead query text.
func serializeCriteria(c model.QueryCriteria) string {
	raw, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return string(raw)
}

func petKeyboard(need bool) *transport.InlineKeyboard {
	if !need {
		return nil
	}
	return transport.TwoButtonRow("Да 🐾", dialog.PetChoiceYes, "Нет", dialog.PetChoiceNo)
}

func postedAt(msg *transport.Message) time.Time {
	if msg.Date > 0 {
		return time.Unix(msg.Date, 0).UTC()
	}
	return time.Now().UTC()
}
