package planner

import (
	"context"

	"github.com/pantrysage/v1/internal/ports/outbound"

	"go.uber.org/zap"
)

const chatFallback = "I'm having trouble reaching the kitchen right now. " +
	"Try again in a moment, or browse your saved recipes in the meantime."

// Chat answers a free-form cooking question with the active pantry as
// context. The assistant is a convenience surface, so a backend failure
// degrades to a canned reply instead of an error.
func (s *Service) Chat(ctx context.Context, history []outbound.ChatMessage, message string) (string, error) {
	s.mu.Lock()
	pantryContext := s.pantryItemNamesLocked()
	s.mu.Unlock()

	reply, err := s.ai.Chat(ctx, history, message, pantryContext)
	if err != nil {
		s.logger.Warn("Assistant unavailable, using fallback", zap.Error(err))
		return chatFallback, nil
	}
	return reply, nil
}
