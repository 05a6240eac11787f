package api

import (
	"net/http"

	"github.com/treasury-reporter/internal/bot"
	apperrors "github.com/treasury-reporter/internal/errors"
	"github.com/treasury-reporter/internal/logging"
)

// webhookRequest is the inbound message delivered by the chat gateway.
type webhookRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// webhookResponse carries the rendered reply back to the gateway.
type webhookResponse struct {
	ChatID string `json:"chat_id"`
	Reply  string `json:"reply"`
}

// handleWebhook handles POST /api/v1/webhook. Every message gets a reply;
// failures are reported conversationally, never as transport errors.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", nil)
		return
	}
	if req.ChatID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "chat_id is required", nil)
		return
	}

	reply := s.dispatch(r, req.ChatID, bot.Parse(req.Text))
	respondJSON(w, http.StatusOK, webhookResponse{ChatID: req.ChatID, Reply: reply})
}

// dispatch routes one parsed command to the matching service call and renders
// the reply.
func (s *Server) dispatch(r *http.Request, chatID string, cmd bot.Command) string {
	ctx := r.Context()

	switch cmd.Kind {
	case bot.CmdStart:
		if cmd.Arg == "" {
			return "Para registrarte mandá /start tu@email.com"
		}
		user, err := s.access.Register(ctx, chatID, cmd.Arg)
		if err != nil {
			if apperrors.IsUserError(err) {
				return s.renderer.Unauthorized()
			}
			return s.failure(chatID, cmd, err)
		}
		return s.renderer.Registered(user.Email)

	case bot.CmdHelp:
		return s.renderer.Help()

	case bot.CmdUnknown:
		return "No entendí ese comando. Escribí /ayuda para ver la lista."
	}

	// Everything past this point requires a registered chat.
	if _, err := s.access.Authorize(ctx, chatID); err != nil {
		if apperrors.IsUserError(err) {
			return s.renderer.Unauthorized()
		}
		return s.failure(chatID, cmd, err)
	}

	switch cmd.Kind {
	case bot.CmdPortfolio:
		rep, err := s.reports.Portfolio(ctx)
		if err != nil {
			return s.failure(chatID, cmd, err)
		}
		return s.renderer.Portfolio(rep)

	case bot.CmdDueToday:
		rep, err := s.reports.DueToday(ctx)
		if err != nil {
			return s.failure(chatID, cmd, err)
		}
		return s.renderer.Due("📅 Vencen hoy", rep)

	case bot.CmdDueTomorrow:
		rep, err := s.reports.DueTomorrow(ctx)
		if err != nil {
			return s.failure(chatID, cmd, err)
		}
		return s.renderer.Due("⏰ Vencen mañana", rep)

	case bot.CmdWeek:
		rep, err := s.reports.DueWeek(ctx)
		if err != nil {
			return s.failure(chatID, cmd, err)
		}
		return s.renderer.Week(rep)

	case bot.CmdBalances:
		rep, err := s.reports.Balances(ctx)
		if err != nil {
			return s.failure(chatID, cmd, err)
		}
		return s.renderer.Balances(rep)

	case bot.CmdAlerts:
		rep, err := s.reports.Alerts(ctx)
		if err != nil {
			return s.failure(chatID, cmd, err)
		}
		return s.renderer.Alerts(rep)

	case bot.CmdCUIT:
		rep, err := s.reports.CUITLookup(ctx, cmd.Arg)
		if err != nil {
			if apperrors.IsUserError(err) {
				return s.renderer.InvalidCUIT()
			}
			return s.failure(chatID, cmd, err)
		}
		return s.renderer.CUIT(rep)

	case bot.CmdSummary:
		rep, err := s.reports.ExecutiveSummary(ctx)
		if err != nil {
			return s.failure(chatID, cmd, err)
		}
		return s.renderer.Summary(rep)

	case bot.CmdSubscribe:
		if err := s.access.Subscribe(ctx, chatID); err != nil {
			return s.failure(chatID, cmd, err)
		}
		return s.renderer.Subscribed()

	case bot.CmdUnsubscribe:
		if err := s.access.Unsubscribe(ctx, chatID); err != nil {
			return s.failure(chatID, cmd, err)
		}
		return s.renderer.Unsubscribed()
	}

	return s.renderer.Help()
}

// failure logs the underlying error and returns the generic failure reply.
func (s *Server) failure(chatID string, cmd bot.Command, err error) string {
	logging.GetGlobalLogger().
		WithError(err).
		WithFields(map[string]interface{}{"chat_id": chatID, "command": string(cmd.Kind)}).
		Error("Command failed")
	return s.renderer.Failure()
}
