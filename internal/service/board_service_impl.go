package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/sprintboard/internal/board"
	"github.com/alexanderramin/sprintboard/internal/domain"
)

type boardService struct {
	remote   board.ProjectRemote
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewBoardService(remote board.ProjectRemote, logger *slog.Logger, observers ...UseCaseObserver) BoardService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &boardService{
		remote:   remote,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *boardService) Open(ctx context.Context, projectID string, opts ...board.Option) (d *board.Dispatcher, err error) {
	defer observe(ctx, s.observer, "open-board", time.Now().UTC(), map[string]any{"project": projectID}, &err)

	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, domain.NewValidationError("project", "id is required")
	}

	all := append([]board.Option{board.WithLogger(s.logger)}, opts...)
	d = board.NewDispatcher(board.NewStore(s.remote), s.remote, all...)
	if err = d.Load(ctx, projectID); err != nil {
		return nil, err
	}
	return d, nil
}
