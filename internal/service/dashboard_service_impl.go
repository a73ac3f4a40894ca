package service

import (
	"context"
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/roster"
)

// UserRecorder keeps the signed-in user once the dashboard has fetched it.
type UserRecorder interface {
	SetUser(u *domain.User)
}

type dashboardService struct {
	roster   *roster.Store
	users    UserRecorder
	observer UseCaseObserver
}

// NewDashboardService wraps the roster store. users may be nil.
func NewDashboardService(r *roster.Store, users UserRecorder, observers ...UseCaseObserver) DashboardService {
	return &dashboardService{roster: r, users: users, observer: useCaseObserverOrNoop(observers)}
}

func (s *dashboardService) Load(ctx context.Context) (r roster.Roster, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "load-dashboard", time.Now().UTC(), fields, &err)

	r, err = s.roster.Load(ctx)
	if err != nil {
		return roster.Roster{}, err
	}
	s.record(r, fields)
	return r, nil
}

func (s *dashboardService) Refresh(ctx context.Context) (r roster.Roster, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "refresh-dashboard", time.Now().UTC(), fields, &err)

	r, err = s.roster.Refresh(ctx)
	if err != nil {
		return roster.Roster{}, err
	}
	s.record(r, fields)
	return r, nil
}

func (s *dashboardService) record(r roster.Roster, fields map[string]any) {
	fields["teams"] = len(r.Teams)
	fields["skipped"] = len(r.Warnings)
	if s.users != nil && r.User != nil {
		s.users.SetUser(r.User)
	}
}
