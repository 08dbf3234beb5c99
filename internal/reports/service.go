package reports

import (
	"context"
	"time"

	"depo-backend/internal/logger"
	"depo-backend/internal/models"
)

// TransferSource: transfer günlüğünü okuyan depolama
type TransferSource interface {
	ListTransfers(ctx context.Context) ([]models.Transfer, error)
}

type Options struct {
	Location           *time.Location // gün kovaları ve saat dilimsiz tarihler için
	BreakdownLocations []string
	TopProductsLimit   int
	Logger             *logger.Logger
}

// Service: her istekte günlüğü baştan okur ve raporu yeniden hesaplar.
// Önbellek ya da paylaşılan durum tutmaz.
type Service struct {
	source  TransferSource
	loc     *time.Location
	targets []string
	limit   int
	log     *logger.Logger
}

func NewService(source TransferSource, opts Options) *Service {
	targets := opts.BreakdownLocations
	if len(targets) == 0 {
		targets = DefaultBreakdownLocations
	}
	limit := opts.TopProductsLimit
	if limit <= 0 {
		limit = DefaultTopProductsLimit
	}
	return &Service{
		source:  source,
		loc:     locationOrLocal(opts.Location),
		targets: targets,
		limit:   limit,
		log:     logger.OrNop(opts.Logger).WithComponent("reports"),
	}
}

// readTransfers: okuma hatasında boş liste döner, hata sadece loglanır
func (s *Service) readTransfers(ctx context.Context) []models.Transfer {
	transfers, err := s.source.ListTransfers(ctx)
	if err != nil {
		s.log.Warnw("Transfer verisi okunamadı, boş liste kullanılacak", "error", err)
		return nil
	}
	return transfers
}

func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) Overview(ctx context.Context) Overview {
	return BuildOverview(s.readTransfers(ctx), s.loc)
}

func (s *Service) LocationTotals(ctx context.Context) LocationTotalsReport {
	return BuildLocationTotals(s.readTransfers(ctx))
}

func (s *Service) CategoryTotals(ctx context.Context) CategoryTotalsReport {
	return BuildCategoryTotals(s.readTransfers(ctx))
}

// TopProducts: limit <= 0 ise yapılandırılmış varsayılan kullanılır
func (s *Service) TopProducts(ctx context.Context, limit int) TopProductsReport {
	if limit <= 0 {
		limit = s.limit
	}
	return BuildTopProducts(s.readTransfers(ctx), limit)
}

// LocationProductBreakdown: targets nil ise varsayılan konumlar,
// boş (nil olmayan) dilim ise tüm konumlar
func (s *Service) LocationProductBreakdown(ctx context.Context, targets []string) LocationBreakdownReport {
	if targets == nil {
		targets = s.targets
	}
	return BuildLocationProductBreakdown(s.readTransfers(ctx), targets)
}

func (s *Service) ServiceSpeed(ctx context.Context) ServiceSpeedReport {
	return BuildServiceSpeed(s.readTransfers(ctx), s.loc)
}

func (s *Service) RetroAnalysis(ctx context.Context, filter RetroFilter) RetroAnalysisReport {
	return BuildRetroAnalysis(s.readTransfers(ctx), filter, s.loc)
}
