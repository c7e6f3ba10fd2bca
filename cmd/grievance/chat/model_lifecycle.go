package chat

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Run starts the interactive session and blocks until the user quits or ctx
// is cancelled. Requests in flight are cancelled on exit.
func Run(ctx context.Context, cfg Config, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg.Context = ctx
	model := New(cfg)

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(model, opts...)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer cancel()
		_, err := p.Run()
		return err
	})
	eg.Go(func() error {
		<-egCtx.Done()
		p.Quit()
		return nil
	})

	err := eg.Wait()
	if errors.Is(err, tea.ErrProgramKilled) {
		err = nil
	}
	if err != nil && cfg.Logger != nil {
		cfg.Logger.Error("interactive session ended with error", zap.Error(err))
	}
	return err
}
