package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sangkips/salon-api/internal/domain/billing"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/domain/stats"
	infraRepo "github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-api/pkg/apperror"
)

const dashboardCacheKeyPrefix = "dashboard:"

// DashboardService provides dashboard statistics
type DashboardService struct {
	invoiceRepo  repository.InvoiceRepository
	feedbackRepo repository.FeedbackRepository
	bookingRepo  repository.BookingRepository
	productRepo  repository.ProductRepository
	serviceRepo  repository.ServiceRepository
	clientRepo   repository.ClientRepository
	branchRepo   repository.BranchRepository
	cache        repository.StatsCache[DashboardStats]
	ttl          time.Duration
	log          *zap.Logger
	now          func() time.Time
}

// DashboardRepositories groups the collections the dashboard reads.
type DashboardRepositories struct {
	Invoices  repository.InvoiceRepository
	Feedbacks repository.FeedbackRepository
	Bookings  repository.BookingRepository
	Products  repository.ProductRepository
	Services  repository.ServiceRepository
	Clients   repository.ClientRepository
	Branches  repository.BranchRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(repos DashboardRepositories, cache repository.StatsCache[DashboardStats], ttl time.Duration, log *zap.Logger) *DashboardService {
	return &DashboardService{
		invoiceRepo:  repos.Invoices,
		feedbackRepo: repos.Feedbacks,
		bookingRepo:  repos.Bookings,
		productRepo:  repos.Products,
		serviceRepo:  repos.Services,
		clientRepo:   repos.Clients,
		branchRepo:   repos.Branches,
		cache:        cache,
		ttl:          ttl,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	Invoices   InvoiceStats        `json:"invoices"`
	Feedback   FeedbackStats       `json:"feedback"`
	Bookings   BookingStats        `json:"bookings"`
	Products   ProductStats        `json:"products"`
	Services   ServiceStats        `json:"services"`
	Clients    ClientStats         `json:"clients"`
	Branches   []BranchPerformance `json:"branches"`
	ComputedAt time.Time           `json:"computed_at"`
}

type InvoiceStats struct {
	Total         int             `json:"total"`
	ByStatus      []stats.Bucket  `json:"by_status"`
	Revenue       decimal.Decimal `json:"revenue"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	Tips          decimal.Decimal `json:"tips"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
	PaidCount     int             `json:"paid_count"`
}

type FeedbackStats struct {
	Total         int            `json:"total"`
	AverageRating float64        `json:"average_rating"`
	Ratings       []stats.Bucket `json:"ratings"`
	ByStatus      []stats.Bucket `json:"by_status"`
	// PositiveShare is the percentage of 4 and 5 star reviews.
	PositiveShare float64 `json:"positive_share"`
}

type BookingStats struct {
	Total           int             `json:"total"`
	ByStatus        []stats.Bucket  `json:"by_status"`
	Upcoming        int             `json:"upcoming"`
	CompletionRate  float64         `json:"completion_rate"`
	ExpectedRevenue decimal.Decimal `json:"expected_revenue"`
}

type ProductStats struct {
	Total          int             `json:"total"`
	Active         int             `json:"active"`
	LowStock       int             `json:"low_stock"`
	UnitsSold      int             `json:"units_sold"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	ByCategory     []stats.Bucket  `json:"by_category"`
}

type ServiceStats struct {
	Total           int             `json:"total"`
	Active          int             `json:"active"`
	AveragePrice    decimal.Decimal `json:"average_price"`
	AverageDuration float64         `json:"average_duration"`
}

type ClientStats struct {
	Total        int             `json:"total"`
	ByStatus     []stats.Bucket  `json:"by_status"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
	AverageSpent decimal.Decimal `json:"average_spent"`
}

type BranchPerformance struct {
	BranchID      string          `json:"branch_id"`
	Name          string          `json:"name"`
	Invoices      int             `json:"invoices"`
	Revenue       decimal.Decimal `json:"revenue"`
	Bookings      int             `json:"bookings"`
	Feedbacks     int             `json:"feedbacks"`
	AverageRating float64         `json:"average_rating"`
}

// DashboardSnapshot is the current content of every collection the
// dashboard reads. A nil slice counts as an empty collection.
type DashboardSnapshot struct {
	Invoices  []entity.Invoice
	Feedbacks []entity.Feedback
	Bookings  []entity.Booking
	Products  []entity.Product
	Services  []entity.Service
	Clients   []entity.Client
	Branches  []entity.Branch
}

// GetStats returns the tenant's statistics, served from the cache while the
// cached value is fresh. force skips the cache.
func (s *DashboardService) GetStats(ctx context.Context, force bool) (*DashboardStats, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.ErrTenantRequired
	}
	key := dashboardCacheKeyPrefix + tenantID

	if !force && s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn("dashboard cache read failed", zap.String("tenant_id", tenantID), zap.Error(err))
		} else if cached != nil && !cached.IsStale(s.now(), s.ttl) {
			return &cached.Value, nil
		}
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	result := ComputeDashboardStats(snap, s.now())

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, stats.NewCachedAggregate(result, result.ComputedAt)); err != nil {
			s.log.Warn("dashboard cache write failed", zap.String("tenant_id", tenantID), zap.Error(err))
		}
	}
	return &result, nil
}

func (s *DashboardService) loadSnapshot(ctx context.Context) (*DashboardSnapshot, error) {
	snap := &DashboardSnapshot{}
	g, ctx := errgroup.WithContext(ctx)
	unordered := repository.OrderBy{}

	g.Go(func() (err error) { snap.Invoices, err = s.invoiceRepo.List(ctx, unordered); return })
	g.Go(func() (err error) { snap.Feedbacks, err = s.feedbackRepo.List(ctx, unordered); return })
	g.Go(func() (err error) { snap.Bookings, err = s.bookingRepo.List(ctx, unordered); return })
	g.Go(func() (err error) { snap.Products, err = s.productRepo.List(ctx, unordered); return })
	g.Go(func() (err error) { snap.Services, err = s.serviceRepo.List(ctx, unordered); return })
	g.Go(func() (err error) { snap.Clients, err = s.clientRepo.List(ctx, unordered); return })
	g.Go(func() (err error) { snap.Branches, err = s.branchRepo.List(ctx, unordered); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Stream pushes freshly computed statistics every time invoices, feedback,
// bookings or branches change. Products, services and clients are read once
// when the stream starts. The channel is closed when ctx ends or every
// subscription has stopped.
func (s *DashboardService) Stream(ctx context.Context) (<-chan DashboardStats, error) {
	if _, ok := infraRepo.GetTenantID(ctx); !ok {
		return nil, apperror.ErrTenantRequired
	}

	snap := &DashboardSnapshot{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { snap.Products, err = s.productRepo.List(gctx, repository.OrderBy{}); return })
	g.Go(func() (err error) { snap.Services, err = s.serviceRepo.List(gctx, repository.OrderBy{}); return })
	g.Go(func() (err error) { snap.Clients, err = s.clientRepo.List(gctx, repository.OrderBy{}); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var subs []interface{ Unsubscribe() }
	unsubscribeAll := func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}

	invoices, err := s.invoiceRepo.Watch(ctx, repository.OrderBy{})
	if err != nil {
		return nil, err
	}
	subs = append(subs, invoices)

	feedbacks, err := s.feedbackRepo.Watch(ctx, repository.OrderBy{})
	if err != nil {
		unsubscribeAll()
		return nil, err
	}
	subs = append(subs, feedbacks)

	bookings, err := s.bookingRepo.Watch(ctx, repository.OrderBy{})
	if err != nil {
		unsubscribeAll()
		return nil, err
	}
	subs = append(subs, bookings)

	branches, err := s.branchRepo.Watch(ctx, repository.OrderBy{})
	if err != nil {
		unsubscribeAll()
		return nil, err
	}
	subs = append(subs, branches)

	out := make(chan DashboardStats, 1)
	go func() {
		defer close(out)
		defer unsubscribeAll()

		invCh, fbCh, bkCh, brCh := invoices.Updates(), feedbacks.Updates(), bookings.Updates(), branches.Updates()
		for invCh != nil || fbCh != nil || bkCh != nil || brCh != nil {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-invCh:
				if !ok {
					invCh = nil
					s.logStopped("invoices", invoices.Err())
					continue
				}
				snap.Invoices = v
			case v, ok := <-fbCh:
				if !ok {
					fbCh = nil
					s.logStopped("feedbacks", feedbacks.Err())
					continue
				}
				snap.Feedbacks = v
			case v, ok := <-bkCh:
				if !ok {
					bkCh = nil
					s.logStopped("bookings", bookings.Err())
					continue
				}
				snap.Bookings = v
			case v, ok := <-brCh:
				if !ok {
					brCh = nil
					s.logStopped("branches", branches.Err())
					continue
				}
				snap.Branches = v
			}

			if !sendLatest(ctx, out, ComputeDashboardStats(snap, s.now())) {
				return
			}
		}
	}()

	return out, nil
}

func (s *DashboardService) logStopped(collection string, err error) {
	if err != nil {
		s.log.Warn("dashboard subscription stopped", zap.String("collection", collection), zap.Error(err))
	}
}

// sendLatest delivers v, replacing a value the reader has not taken yet.
func sendLatest[T any](ctx context.Context, out chan T, v T) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case out <- v:
			return true
		default:
		}
		select {
		case <-out:
		default:
		}
	}
}

// ComputeDashboardStats reduces a snapshot to the dashboard figures.
func ComputeDashboardStats(snap *DashboardSnapshot, now time.Time) DashboardStats {
	if snap == nil {
		snap = &DashboardSnapshot{}
	}

	return DashboardStats{
		Invoices:   invoiceStats(snap.Invoices),
		Feedback:   feedbackStats(snap.Feedbacks),
		Bookings:   bookingStats(snap.Bookings, now),
		Products:   productStats(snap.Products),
		Services:   serviceStats(snap.Services),
		Clients:    clientStats(snap.Clients),
		Branches:   branchPerformance(snap),
		ComputedAt: now,
	}
}

func invoiceStatuses() []string {
	keys := make([]string, 0, len(enum.InvoiceStatuses()))
	for _, st := range enum.InvoiceStatuses() {
		keys = append(keys, st.String())
	}
	return keys
}

func invoiceStats(invoices []entity.Invoice) InvoiceStats {
	result := InvoiceStats{
		Total:    len(invoices),
		ByStatus: stats.Distribution(invoices, func(inv entity.Invoice) string { return inv.Status.String() }, invoiceStatuses()...),
	}

	paid := stats.Filter(invoices, func(inv entity.Invoice) bool { return inv.Status == enum.InvoiceStatusPaid })
	open := stats.Filter(invoices, func(inv entity.Invoice) bool {
		return inv.Status != enum.InvoiceStatusPaid && inv.Status != enum.InvoiceStatusCancelled
	})
	total := func(inv entity.Invoice) decimal.Decimal { return billing.ComputeTotal(&inv) }

	result.PaidCount = len(paid)
	result.Revenue = billing.Round(stats.SumField(paid, total))
	result.AverageTicket = billing.Round(stats.Average(paid, total))
	result.Tips = billing.Round(stats.SumField(paid, func(inv entity.Invoice) decimal.Decimal { return billing.ComputeTotalTips(&inv) }))
	result.Outstanding = billing.Round(stats.SumField(open, func(inv entity.Invoice) decimal.Decimal {
		balance := billing.ComputeBalance(&inv)
		if balance.IsNegative() {
			return decimal.Zero
		}
		return balance
	}))
	return result
}

func feedbackStats(feedbacks []entity.Feedback) FeedbackStats {
	rating := func(f entity.Feedback) int { return f.Rating }
	statuses := make([]string, 0, len(enum.FeedbackStatuses()))
	for _, st := range enum.FeedbackStatuses() {
		statuses = append(statuses, st.String())
	}

	positive := stats.Filter(feedbacks, func(f entity.Feedback) bool { return f.Rating >= 4 })
	return FeedbackStats{
		Total:         len(feedbacks),
		AverageRating: stats.AverageRating(feedbacks, rating),
		Ratings:       stats.RatingBuckets(feedbacks, rating),
		ByStatus:      stats.Distribution(feedbacks, func(f entity.Feedback) string { return f.Status.String() }, statuses...),
		PositiveShare: stats.PercentageOf(len(positive), len(feedbacks)),
	}
}

func bookingStats(bookings []entity.Booking, now time.Time) BookingStats {
	statuses := make([]string, 0, len(enum.BookingStatuses()))
	for _, st := range enum.BookingStatuses() {
		statuses = append(statuses, st.String())
	}

	upcoming := stats.Filter(bookings, func(b entity.Booking) bool { return b.StartsAt.After(now) && !b.Status.IsFinal() })
	completed := stats.Filter(bookings, func(b entity.Booking) bool { return b.Status == enum.BookingStatusCompleted })
	billable := stats.Filter(bookings, func(b entity.Booking) bool {
		return b.Status != enum.BookingStatusCancelled && b.Status != enum.BookingStatusNoShow
	})

	return BookingStats{
		Total:           len(bookings),
		ByStatus:        stats.Distribution(bookings, func(b entity.Booking) string { return b.Status.String() }, statuses...),
		Upcoming:        len(upcoming),
		CompletionRate:  stats.PercentageOf(len(completed), len(bookings)),
		ExpectedRevenue: billing.Round(stats.SumField(billable, func(b entity.Booking) decimal.Decimal { return b.Price })),
	}
}

func productStats(products []entity.Product) ProductStats {
	active := stats.Filter(products, func(p entity.Product) bool { return p.Status != enum.RecordStatusInactive })
	low := stats.Filter(active, func(p entity.Product) bool { return p.IsLowStock() })

	return ProductStats{
		Total:          len(products),
		Active:         len(active),
		LowStock:       len(low),
		UnitsSold:      stats.SumInt(products, func(p entity.Product) int { return p.UnitsSold }),
		InventoryValue: billing.Round(stats.SumField(products, func(p entity.Product) decimal.Decimal { return p.InventoryValue() })),
		ByCategory:     stats.Distribution(products, func(p entity.Product) string { return p.CategoryID }),
	}
}

func serviceStats(services []entity.Service) ServiceStats {
	active := stats.Filter(services, func(s entity.Service) bool { return s.Status != enum.RecordStatusInactive })

	var avgDuration float64
	if len(services) > 0 {
		avgDuration = float64(stats.SumInt(services, func(s entity.Service) int { return s.Duration })) / float64(len(services))
	}
	return ServiceStats{
		Total:           len(services),
		Active:          len(active),
		AveragePrice:    billing.Round(stats.Average(services, func(s entity.Service) decimal.Decimal { return s.Price })),
		AverageDuration: avgDuration,
	}
}

func clientStats(clients []entity.Client) ClientStats {
	statuses := make([]string, 0, len(enum.ClientStatuses()))
	for _, st := range enum.ClientStatuses() {
		statuses = append(statuses, st.String())
	}
	spent := func(c entity.Client) decimal.Decimal { return c.TotalSpent }

	return ClientStats{
		Total:        len(clients),
		ByStatus:     stats.Distribution(clients, func(c entity.Client) string { return c.Status.String() }, statuses...),
		TotalSpent:   billing.Round(stats.SumField(clients, spent)),
		AverageSpent: billing.Round(stats.Average(clients, spent)),
	}
}

// branchPerformance lists every known branch, in snapshot order, with the
// invoices, bookings and feedback attributed to it.
func branchPerformance(snap *DashboardSnapshot) []BranchPerformance {
	result := make([]BranchPerformance, 0, len(snap.Branches))
	for _, b := range snap.Branches {
		id := b.ID
		invoices := stats.Filter(snap.Invoices, func(inv entity.Invoice) bool {
			return inv.BranchID == id && inv.Status == enum.InvoiceStatusPaid
		})
		feedbacks := stats.Filter(snap.Feedbacks, func(f entity.Feedback) bool { return f.BranchID == id })
		bookings := stats.Filter(snap.Bookings, func(bk entity.Booking) bool { return bk.BranchID == id })

		result = append(result, BranchPerformance{
			BranchID:      id,
			Name:          b.Name,
			Invoices:      len(invoices),
			Revenue:       billing.Round(stats.SumField(invoices, func(inv entity.Invoice) decimal.Decimal { return billing.ComputeTotal(&inv) })),
			Bookings:      len(bookings),
			Feedbacks:     len(feedbacks),
			AverageRating: stats.AverageRating(feedbacks, func(f entity.Feedback) int { return f.Rating }),
		})
	}
	return result
}
