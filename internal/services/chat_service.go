package services

import (
	"fmt"
	"math/big"
	"strings"

	"go.uber.org/zap"

	"charity-chat-service/internal/dataset"
	"charity-chat-service/internal/models"
)

const (
	DefaultPageSize      = 7
	DefaultDonateBaseURL = "https://example.com/donate/"

	idPrefix        = "id:"
	continuationKey = "more"

	msgInvalidID  = "Invalid charity ID format. Please enter a numeric ID."
	msgNoResults  = "No charities found for your query. Try a different category, cause, or location."
	msgMoreHint   = "Type 'More' to see more results."
	msgInternal   = "Sorry, there was an error processing your request."
	msgNotFoundID = "No charity found with ID: %s"
)

// Query outcomes reported to the Observer.
const (
	OutcomeDetail    = "detail"
	OutcomeInvalidID = "invalid_id"
	OutcomeNotFound  = "not_found"
	OutcomeListing   = "listing"
	OutcomeEmpty     = "empty"
	OutcomeError     = "error"
)

type Observer interface {
	ObserveQuery(outcome string, matches int)
}

type nopObserver struct{}

func (nopObserver) ObserveQuery(string, int) {}

// ChatService answers free-text charity queries against a loaded dataset. It keeps
// no per-conversation state; everything needed for the next turn is returned in the
// response.
type ChatService struct {
	Dataset       *dataset.Dataset
	PageSize      int
	DonateBaseURL string
	Logger        *zap.Logger
	Observer      Observer
}

func (s *ChatService) pageSize() int {
	if s.PageSize <= 0 {
		return DefaultPageSize
	}
	return s.PageSize
}

func (s *ChatService) donateBase() string {
	if strings.TrimSpace(s.DonateBaseURL) == "" {
		return DefaultDonateBaseURL
	}
	return s.DonateBaseURL
}

func (s *ChatService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *ChatService) observer() Observer {
	if s.Observer == nil {
		return nopObserver{}
	}
	return s.Observer
}

// Answer interprets req.Message against the carried state. It never fails: any
// unexpected error is logged and reported to the user as a generic apology with the
// incoming state echoed back.
func (s *ChatService) Answer(req models.ChatRequest) (resp models.ChatResponse) {
	defer func() {
		if r := recover(); r != nil {
			s.logger().Error("query processing failed",
				zap.Any("panic", r),
				zap.String("message", req.Message),
			)
			s.observer().ObserveQuery(OutcomeError, 0)
			resp = models.ChatResponse{Response: msgInternal, ConversationState: req.ConversationState}
		}
	}()

	msg := strings.ToLower(req.Message)
	var (
		text    string
		state   models.ConversationState
		outcome string
		matches int
	)
	if strings.HasPrefix(msg, idPrefix) {
		text, outcome = s.lookup(msg)
		state = req.ConversationState
		if outcome == OutcomeDetail {
			matches = 1
		}
	} else {
		text, state, outcome, matches = s.list(msg, req.ConversationState)
	}

	s.observer().ObserveQuery(outcome, matches)
	return models.ChatResponse{Response: strings.TrimSpace(text), ConversationState: state}
}

func (s *ChatService) lookup(msg string) (string, string) {
	raw := strings.TrimSpace(strings.Split(msg, idPrefix)[1])
	n, ok := parseCharityID(raw)
	if !ok {
		return msgInvalidID, OutcomeInvalidID
	}
	if !n.IsInt64() {
		return fmt.Sprintf(msgNotFoundID, n.String()), OutcomeNotFound
	}
	c, ok := s.Dataset.ByID(n.Int64())
	if !ok {
		return fmt.Sprintf(msgNotFoundID, n.String()), OutcomeNotFound
	}
	return formatDetail(c, s.donateBase()), OutcomeDetail
}

// parseCharityID accepts a signed decimal integer of any size. Single underscores may
// separate digits ("1_000").
func parseCharityID(raw string) (*big.Int, bool) {
	digits := raw
	sign := ""
	if strings.HasPrefix(digits, "+") || strings.HasPrefix(digits, "-") {
		sign, digits = digits[:1], digits[1:]
	}
	if digits == "" || strings.HasPrefix(digits, "_") || strings.HasSuffix(digits, "_") || strings.Contains(digits, "__") {
		return nil, false
	}
	return new(big.Int).SetString(sign+strings.ReplaceAll(digits, "_", ""), 10)
}

func (s *ChatService) list(msg string, prev models.ConversationState) (string, models.ConversationState, string, int) {
	ds := s.Dataset
	filters := models.ConversationState{
		Category: firstContained(ds.Categories(), msg),
		Cause:    firstContained(ds.Causes(), msg),
		Location: firstContained(ds.Cities(), msg),
		Offset:   prev.Offset,
	}
	// A continuation keeps the previous filters even if the message names new ones.
	if strings.Contains(msg, continuationKey) {
		filters.Category = prev.Category
		filters.Cause = prev.Cause
		filters.Location = prev.Location
	}

	matches := Filter(ds.Charities(), filters)
	if len(matches) == 0 {
		return msgNoResults, filters, OutcomeEmpty, 0
	}

	size := s.pageSize()
	start := max(filters.Offset, 0)
	end := min(start+size, len(matches))
	var page []models.Charity
	if start < len(matches) {
		page = matches[start:end]
	}

	var b strings.Builder
	b.WriteString(formatHeader(filters))
	for _, c := range page {
		b.WriteString(formatListing(c, s.donateBase()))
	}
	filters.Offset = start + size
	if len(matches) > filters.Offset {
		b.WriteString(msgMoreHint)
	}
	return b.String(), filters, OutcomeListing, len(matches)
}

// firstContained returns the first vocabulary entry whose lower-cased form occurs in
// msg. Vocabulary order decides ties.
func firstContained(vocab []string, msg string) string {
	for _, v := range vocab {
		if strings.Contains(msg, strings.ToLower(v)) {
			return v
		}
	}
	return ""
}

// Filter keeps the charities matching every non-empty filter in f, in input order.
// Category and cause compare case-insensitively; location matches any derived city.
func Filter(charities []models.Charity, f models.ConversationState) []models.Charity {
	out := make([]models.Charity, 0)
	for _, c := range charities {
		if f.Category != "" && !strings.EqualFold(c.Category, f.Category) {
			continue
		}
		if f.Cause != "" && !strings.EqualFold(c.Cause, f.Cause) {
			continue
		}
		if f.Location != "" && !hasCity(c.Cities, f.Location) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func hasCity(cities []string, location string) bool {
	for _, city := range cities {
		if strings.EqualFold(city, location) {
			return true
		}
	}
	return false
}
