package app

import (
	"log/slog"

	"github.com/ayusman/mudra/internal/store"
)

// startSession records the run when a store is configured. Store failures are
// logged and never stop the presentation.
func (a *App) startSession() *store.Session {
	if a.config.Store == nil || a.config.DeckID == "" {
		return nil
	}

	sess, err := a.config.Store.Sessions().Start(a.config.DeckID)
	if err != nil {
		a.logger.Warn("record session start", slog.Any("error", err))
		return nil
	}
	if err := a.config.Store.Settings().Set(store.SettingLastDeck, a.config.DeckID); err != nil {
		a.logger.Warn("remember last deck", slog.Any("error", err))
	}
	return sess
}

func (a *App) finishSession(sess *store.Session) {
	a.logger.Info("session finished",
		slog.Int("frames", a.summary.Frames),
		slog.Int("navigations", a.summary.Navigations),
		slog.Int("last_slide", a.summary.LastSlide))

	if sess == nil {
		return
	}
	if err := a.config.Store.Sessions().Finish(sess.ID, a.summary.LastSlide, a.summary.Navigations); err != nil {
		a.logger.Warn("record session finish", slog.Any("error", err))
	}
}
