package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/internal/domain/stats"
)

var statsNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func paidInvoice(branchID string) entity.Invoice {
	inv := entity.Invoice{
		BranchID:       branchID,
		ServiceName:    "Haircut",
		ServicePrice:   dec("35"),
		Products:       []entity.LineItem{{Name: "Pomade", UnitPrice: dec("10"), Quantity: 2}},
		ServiceCharges: dec("5"),
		Discount:       dec("10"),
		DiscountType:   enum.DiscountTypeFixed,
		Tax:            dec("5"),
		ServiceTip:     dec("5"),
		TeamMembers:    []entity.StaffTip{{Name: "Mike", Tip: dec("3")}},
		Status:         enum.InvoiceStatusPaid,
	}
	inv.SelectPaymentMethod(enum.PaymentMethodCash, dec("60.5"))
	return inv
}

func dashboardSnapshot() *DashboardSnapshot {
	open := paidInvoice("b1")
	open.Status = enum.InvoiceStatusSent
	open.SetPaymentMethods(nil)
	open.SelectPaymentMethod(enum.PaymentMethodCard, dec("20"))

	cancelled := paidInvoice("b2")
	cancelled.Status = enum.InvoiceStatusCancelled

	return &DashboardSnapshot{
		Invoices: []entity.Invoice{paidInvoice("b1"), open, cancelled},
		Feedbacks: []entity.Feedback{
			{BranchID: "b1", Rating: 5, Status: enum.FeedbackStatusNew},
			{BranchID: "b1", Rating: 4, Status: enum.FeedbackStatusResolved},
			{BranchID: "b2", Rating: 2, Status: enum.FeedbackStatusNew},
		},
		Bookings: []entity.Booking{
			{BranchID: "b1", Price: dec("35"), StartsAt: statsNow.Add(-time.Hour), Status: enum.BookingStatusCompleted},
			{BranchID: "b1", Price: dec("50"), StartsAt: statsNow.Add(time.Hour), Status: enum.BookingStatusPending},
			{BranchID: "b2", Price: dec("80"), StartsAt: statsNow.Add(2 * time.Hour), Status: enum.BookingStatusCancelled},
		},
		Products: []entity.Product{
			{Price: dec("10"), Cost: dec("4"), Stock: 2, LowStockThreshold: 5, UnitsSold: 7, Status: enum.RecordStatusActive, CategoryID: "c1"},
			{Price: dec("20"), Cost: dec("8"), Stock: 10, LowStockThreshold: 5, UnitsSold: 3, Status: enum.RecordStatusInactive, CategoryID: "c1"},
		},
		Services: []entity.Service{
			{Price: dec("30"), Duration: 30, Status: enum.RecordStatusActive},
			{Price: dec("45"), Duration: 60, Status: enum.RecordStatusActive},
		},
		Clients: []entity.Client{
			{TotalSpent: dec("100"), Status: enum.ClientStatusVIP},
			{TotalSpent: dec("50"), Status: enum.ClientStatusActive},
		},
		Branches: []entity.Branch{
			{Base: entity.Base{ID: "b1"}, Name: "Downtown"},
			{Base: entity.Base{ID: "b2"}, Name: "Uptown"},
		},
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func bucketCount(buckets []stats.Bucket, key string) int {
	for _, b := range buckets {
		if b.Key == key {
			return b.Count
		}
	}
	return -1
}

func TestComputeDashboardStats(t *testing.T) {
	got := ComputeDashboardStats(dashboardSnapshot(), statsNow)

	inv := got.Invoices
	if inv.Total != 3 || inv.PaidCount != 1 {
		t.Fatalf("unexpected invoice counts %+v", inv)
	}
	if !inv.Revenue.Equal(dec("60.5")) || !inv.AverageTicket.Equal(dec("60.5")) || !inv.Tips.Equal(dec("8")) {
		t.Fatalf("unexpected revenue figures %+v", inv)
	}
	if !inv.Outstanding.Equal(dec("40.5")) {
		t.Fatalf("outstanding should only count open invoices, got %s", inv.Outstanding)
	}
	if bucketCount(inv.ByStatus, "paid") != 1 || bucketCount(inv.ByStatus, "draft") != 0 {
		t.Fatalf("unexpected status buckets %+v", inv.ByStatus)
	}

	fb := got.Feedback
	if fb.Total != 3 || !approx(fb.AverageRating, 3.67) || !approx(fb.PositiveShare, 66.67) {
		t.Fatalf("unexpected feedback stats %+v", fb)
	}
	if bucketCount(fb.Ratings, "5") != 1 || bucketCount(fb.Ratings, "3") != 0 {
		t.Fatalf("unexpected rating buckets %+v", fb.Ratings)
	}

	bk := got.Bookings
	if bk.Upcoming != 1 || !approx(bk.CompletionRate, 33.33) || !bk.ExpectedRevenue.Equal(dec("85")) {
		t.Fatalf("unexpected booking stats %+v", bk)
	}

	if got.Products.Active != 1 || got.Products.LowStock != 1 || got.Products.UnitsSold != 10 {
		t.Fatalf("unexpected product stats %+v", got.Products)
	}
	if !got.Services.AveragePrice.Equal(dec("37.5")) || got.Services.AverageDuration != 45 {
		t.Fatalf("unexpected service stats %+v", got.Services)
	}
	if !got.Clients.TotalSpent.Equal(dec("150")) || !got.Clients.AverageSpent.Equal(dec("75")) {
		t.Fatalf("unexpected client stats %+v", got.Clients)
	}

	if len(got.Branches) != 2 {
		t.Fatalf("expected two branches, got %d", len(got.Branches))
	}
	downtown := got.Branches[0]
	if downtown.Name != "Downtown" || downtown.Invoices != 1 || downtown.Bookings != 2 || downtown.AverageRating != 4.5 {
		t.Fatalf("unexpected branch performance %+v", downtown)
	}
	if !got.ComputedAt.Equal(statsNow) {
		t.Fatalf("computed at should be the given time")
	}
}

func TestComputeDashboardStatsEmpty(t *testing.T) {
	got := ComputeDashboardStats(nil, statsNow)
	if got.Invoices.Total != 0 || !got.Invoices.AverageTicket.IsZero() || got.Feedback.AverageRating != 0 {
		t.Fatalf("empty snapshot should give zero figures: %+v", got)
	}
	if len(got.Branches) != 0 {
		t.Fatalf("expected no branches")
	}
}

type countingCache struct {
	entries map[string]stats.CachedAggregate[DashboardStats]
	gets    int
	sets    int
	err     error
}

func (c *countingCache) Get(_ context.Context, key string) (*stats.CachedAggregate[DashboardStats], error) {
	c.gets++
	if c.err != nil {
		return nil, c.err
	}
	v, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (c *countingCache) Set(_ context.Context, key string, v stats.CachedAggregate[DashboardStats]) error {
	c.sets++
	c.entries[key] = v
	return nil
}

func (c *countingCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func TestGetStatsUsesCacheUntilStale(t *testing.T) {
	st := newStores()
	ctx := tenantCtx()
	cache := &countingCache{entries: map[string]stats.CachedAggregate[DashboardStats]{}}
	svc := NewDashboardService(st.dashboardRepos(), cache, time.Minute, zap.NewNop())
	clock := statsNow
	svc.now = func() time.Time { return clock }

	inv := paidInvoice("")
	if err := st.invoices.Create(ctx, &inv); err != nil {
		t.Fatalf("seed: %v", err)
	}

	first, err := svc.GetStats(ctx, false)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if first.Invoices.Total != 1 || cache.sets != 1 {
		t.Fatalf("expected computed and cached stats, got %+v (sets %d)", first.Invoices, cache.sets)
	}
	if _, ok := cache.entries["dashboard:salon-1"]; !ok {
		t.Fatalf("cache key should be scoped to the tenant")
	}

	st.invoices.listErr = errors.New("firestore down")

	cached, err := svc.GetStats(ctx, false)
	if err != nil || cached.Invoices.Total != 1 {
		t.Fatalf("fresh cache should be served: %v", err)
	}

	if _, err := svc.GetStats(ctx, true); err == nil {
		t.Fatalf("force should bypass the cache")
	}

	clock = clock.Add(2 * time.Minute)
	if _, err := svc.GetStats(ctx, false); err == nil {
		t.Fatalf("stale entry should be recomputed")
	}
}

func TestGetStatsToleratesCacheFailure(t *testing.T) {
	st := newStores()
	cache := &countingCache{entries: map[string]stats.CachedAggregate[DashboardStats]{}, err: errors.New("redis down")}
	svc := NewDashboardService(st.dashboardRepos(), cache, time.Minute, zap.NewNop())

	if _, err := svc.GetStats(tenantCtx(), false); err != nil {
		t.Fatalf("cache errors should not fail the request: %v", err)
	}
	if _, err := svc.GetStats(context.Background(), false); err == nil {
		t.Fatalf("expected tenant error")
	}
}

func TestStreamEmitsOnChange(t *testing.T) {
	st := newStores()
	svc := NewDashboardService(st.dashboardRepos(), nil, time.Minute, zap.NewNop())

	ctx, cancel := context.WithCancel(tenantCtx())
	defer cancel()

	updates, err := svc.Stream(ctx)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}

	inv := paidInvoice("")
	if err := st.invoices.Create(tenantCtx(), &inv); err != nil {
		t.Fatalf("create: %v", err)
	}

	timeout := time.After(2 * time.Second)
	for seen := false; !seen; {
		select {
		case s := <-updates:
			seen = s.Invoices.Total == 1 && s.Invoices.Revenue.Equal(dec("60.5"))
		case <-timeout:
			t.Fatalf("no update with the new invoice")
		}
	}

	cancel()
	for {
		select {
		case _, ok := <-updates:
			if !ok {
				return
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("stream should close after cancel")
		}
	}
}
