package cmd

import (
	"fmt"

	"github.com/msto63/opspy/foundation/core/log"
	"github.com/msto63/opspy/foundation/spy"
	"github.com/msto63/opspy/foundation/spy/grammar"
	"github.com/msto63/opspy/internal/opensees/commands"
	"github.com/msto63/opspy/internal/opensees/handlers"
	"github.com/msto63/opspy/internal/script"
	"github.com/msto63/opspy/pkg/core/config"
)

// session wires the stub OpenSees domain, the default handlers, the spy
// and the script runner
type session struct {
	domain   *commands.Domain
	handlers *handlers.Set
	spy      *spy.Spy
	runner   *script.Runner
	logger   *log.Logger
}

func newSession(cfg *config.Config, logger *log.Logger) (*session, error) {
	overlays, err := loadGrammars(cfg.Grammar.Files)
	if err != nil {
		return nil, err
	}

	domain := commands.New(commands.Options{
		Logger: logger,
		NDM:    cfg.Model.NDM,
		NDF:    cfg.Model.NDF,
	})
	set := handlers.New(handlers.Options{
		Logger: logger,
		NDM:    cfg.Model.NDM,
		NDF:    cfg.Model.NDF,
	})

	s, err := spy.New(domain.Namespace(), spy.Options{
		Logger:   logger,
		Handlers: set.Handlers(cfg.HandlerEnabled),
		Grammars: overlays,
	})
	if err != nil {
		return nil, err
	}

	runner, err := script.New(domain.Namespace(), script.Options{
		Global: cfg.Script.Global,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	return &session{
		domain:   domain,
		handlers: set,
		spy:      s,
		runner:   runner,
		logger:   logger,
	}, nil
}

func loadGrammars(files []string) ([]grammar.Set, error) {
	sets := make([]grammar.Set, 0, len(files))
	for _, f := range files {
		set, err := grammar.LoadFile(f)
		if err != nil {
			return nil, fmt.Errorf("Grammatik %s: %w", f, err)
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// runScript executes path with hooks installed and restores the namespace
// afterwards. State of a previous run is dropped first.
func (s *session) runScript(path string) error {
	s.spy.Clear()
	s.domain.Wipe()

	if _, err := s.spy.Hook(); err != nil {
		return err
	}
	runErr := s.runner.RunFile(path)
	if err := s.spy.Restore(); err != nil {
		s.logger.ErrorWithErr("restore failed", err)
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}
