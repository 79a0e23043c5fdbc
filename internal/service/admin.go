package service

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/talentvote/backend/internal/dto"
	"github.com/talentvote/backend/internal/model"
	"github.com/talentvote/backend/internal/repository"
)

// AdminService owns catalog management and the reporting derivations. Reports
// are always computed from the current catalog and counters; there is no
// cached report state.
type AdminService interface {
	Reinitialize(ctx context.Context, descriptors []dto.EntrantDescriptor) (int, error)
	AddEntrant(ctx context.Context, name, category, photo string) (model.Entrant, error)
	Dashboard(ctx context.Context) ([]dto.EntrantAdminView, error)
	Top3(ctx context.Context) ([]dto.EntrantAdminView, error)
	ZeroVoteEntrants(ctx context.Context) ([]dto.EntrantAdminView, error)
	VotesByCategory(ctx context.Context) (map[string]int64, error)
	SystemStats(ctx context.Context) (dto.DashboardStats, error)
	Reconcile(ctx context.Context) error
}

type adminService struct {
	entrantRepository repository.EntrantRepository
	ledgerRepository  repository.LedgerRepository
	counterRepository repository.CounterRepository
}

func newAdminService(
	entrantRepository repository.EntrantRepository,
	ledgerRepository repository.LedgerRepository,
	counterRepository repository.CounterRepository,
) AdminService {
	return &adminService{
		entrantRepository: entrantRepository,
		ledgerRepository:  ledgerRepository,
		counterRepository: counterRepository,
	}
}

// Reinitialize replaces the whole contest: catalog, ledger and counters are
// cleared, then every valid descriptor becomes a fresh entrant with a zero
// counter. Descriptors missing a name or category are skipped silently.
func (a *adminService) Reinitialize(ctx context.Context, descriptors []dto.EntrantDescriptor) (int, error) {
	if err := a.entrantRepository.ClearAll(); err != nil {
		return 0, err
	}
	if err := a.ledgerRepository.ClearAll(); err != nil {
		return 0, err
	}
	if err := a.counterRepository.ClearAll(ctx); err != nil {
		return 0, err
	}

	loaded := 0
	for _, descriptor := range descriptors {
		if !descriptor.Valid() {
			continue
		}

		entrant, err := a.entrantRepository.Add(model.Entrant{
			Name:     descriptor.Name,
			Category: descriptor.Category,
			Photo:    descriptor.PhotoOrDefault(),
		})
		if err != nil {
			return loaded, err
		}
		if err := a.counterRepository.SetTotal(ctx, entrant.ID, 0); err != nil {
			return loaded, err
		}
		loaded++
	}

	if err := a.counterRepository.SetSystemTotal(ctx, 0); err != nil {
		return loaded, err
	}

	logrus.Infof("Reinitialized contest with %d entrants (%d descriptors supplied)", loaded, len(descriptors))
	return loaded, nil
}

func (a *adminService) AddEntrant(ctx context.Context, name, category, photo string) (model.Entrant, error) {
	if photo == "" {
		photo = dto.DefaultPhoto
	}

	entrant, err := a.entrantRepository.Add(model.Entrant{
		Name:     name,
		Category: category,
		Photo:    photo,
	})
	if err != nil {
		return model.Entrant{}, err
	}

	if err := a.counterRepository.SetTotal(ctx, entrant.ID, 0); err != nil {
		return model.Entrant{}, err
	}

	logrus.Infof("Added entrant %s (%s / %s)", entrant.ID, entrant.Name, entrant.Category)
	return entrant, nil
}

// Dashboard joins every catalog entry with its live counter, defaulting to
// zero when no counter exists yet. Order follows the catalog.
func (a *adminService) Dashboard(ctx context.Context) ([]dto.EntrantAdminView, error) {
	entrants, err := a.entrantRepository.All()
	if err != nil {
		return nil, err
	}

	totals, err := a.counterRepository.AllTotals(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]dto.EntrantAdminView, 0, len(entrants))
	for _, entrant := range entrants {
		views = append(views, dto.EntrantAdminView{
			ID:         entrant.ID,
			Name:       entrant.Name,
			Category:   entrant.Category,
			Photo:      entrant.Photo,
			TotalVotes: totals[entrant.ID],
		})
	}
	return views, nil
}

// Top3 returns the dashboard sorted by votes descending, ties keeping catalog
// order, truncated to three entries.
func (a *adminService) Top3(ctx context.Context) ([]dto.EntrantAdminView, error) {
	views, err := a.Dashboard(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].TotalVotes > views[j].TotalVotes
	})

	if len(views) > 3 {
		views = views[:3]
	}
	return views, nil
}

func (a *adminService) ZeroVoteEntrants(ctx context.Context) ([]dto.EntrantAdminView, error) {
	views, err := a.Dashboard(ctx)
	if err != nil {
		return nil, err
	}

	zeros := make([]dto.EntrantAdminView, 0)
	for _, view := range views {
		if view.TotalVotes == 0 {
			zeros = append(zeros, view)
		}
	}
	return zeros, nil
}

func (a *adminService) VotesByCategory(ctx context.Context) (map[string]int64, error) {
	views, err := a.Dashboard(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64)
	for _, view := range views {
		totals[view.Category] += view.TotalVotes
	}
	return totals, nil
}

func (a *adminService) SystemStats(ctx context.Context) (dto.DashboardStats, error) {
	systemTotal, err := a.counterRepository.SystemTotal(ctx)
	if err != nil {
		return dto.DashboardStats{}, err
	}

	byCategory, err := a.VotesByCategory(ctx)
	if err != nil {
		return dto.DashboardStats{}, err
	}

	return dto.DashboardStats{
		TotalVotesSystem: systemTotal,
		VotesByCategory:  byCategory,
	}, nil
}

// Reconcile rewrites every counter from the ledger, the explicit out-of-band
// repair for counter drift. It never runs automatically.
func (a *adminService) Reconcile(ctx context.Context) error {
	ledgerTotals, err := a.ledgerRepository.CountByEntrant()
	if err != nil {
		return err
	}

	entrants, err := a.entrantRepository.All()
	if err != nil {
		return err
	}

	if err := a.counterRepository.ClearAll(ctx); err != nil {
		return err
	}

	var systemTotal int64
	for _, entrant := range entrants {
		total := ledgerTotals[entrant.ID]
		if err := a.counterRepository.SetTotal(ctx, entrant.ID, total); err != nil {
			return err
		}
		systemTotal += total
	}
	if err := a.counterRepository.SetSystemTotal(ctx, systemTotal); err != nil {
		return err
	}

	logrus.Infof("Reconciled counters from ledger: %d entrants, system total %d", len(entrants), systemTotal)
	return nil
}
