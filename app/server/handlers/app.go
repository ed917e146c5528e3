package handlers

import (
	"e-voting/app/server/credentials"
	"e-voting/app/server/ledger"
	"e-voting/app/server/sessions"
	"e-voting/app/server/voting"

	"go.uber.org/zap"
)

type App struct {
	l        *zap.Logger
	users    *credentials.Store
	sessions *sessions.Registry
	ledger   *ledger.Ledger      // votings, candidates, tallies
	votes    *voting.Coordinator // the vote transaction
}

func NewApp(l *zap.Logger, users *credentials.Store, sessions *sessions.Registry, ledger *ledger.Ledger, votes *voting.Coordinator) *App {
	return &App{
		l:        l,
		users:    users,
		sessions: sessions,
		ledger:   ledger,
		votes:    votes,
	}
}
