package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"resellhub-api/internal/model"
	"resellhub-api/internal/repository"
)

// ExpiryService finds sales whose term ends exactly windowDays from now and
// produces the warning effects for them. The scan is read-only: it never
// flips sale status, which is derived on read paths instead.
type ExpiryService struct {
	sales      repository.SaleRepository
	windowDays int
	now        func() time.Time
}

// NewExpiryService creates the scanner. windowDays <= 0 falls back to 3.
func NewExpiryService(sales repository.SaleRepository, windowDays int) *ExpiryService {
	if windowDays <= 0 {
		windowDays = 3
	}
	return &ExpiryService{sales: sales, windowDays: windowDays, now: time.Now}
}

// ExpiryReport is the outcome of one warning run.
type ExpiryReport struct {
	Day      time.Time           `json:"day"`
	Sales    []model.SaleSummary `json:"sales"`
	Warnings int                 `json:"warnings"`
}

func (s *ExpiryService) windowOrDefault(days int) int {
	if days <= 0 {
		return s.windowDays
	}
	return days
}

// FindExpiringSoon lists the active sales ending exactly days from today;
// days <= 0 uses the configured window. The query is executed fresh each
// call so a renewal that landed a second earlier already drops off the list.
func (s *ExpiryService) FindExpiringSoon(ctx context.Context, days int) ([]model.SaleSummary, error) {
	day := model.Date(s.now()).AddDate(0, 0, s.windowOrDefault(days))
	return s.sales.FindExpiringOn(ctx, day)
}

// RunExpiryWarnings scans for sales expiring in the window and returns one
// warning event per sale, plus a notification for the selling agent when the
// sale has one. Calling it twice on the same day repeats the same warnings;
// dedup is the webhook consumer's concern.
func (s *ExpiryService) RunExpiryWarnings(ctx context.Context, days int) (*ExpiryReport, Effects, error) {
	day := model.Date(s.now()).AddDate(0, 0, s.windowOrDefault(days))
	sales, err := s.sales.FindExpiringOn(ctx, day)
	if err != nil {
		return nil, Effects{}, err
	}

	var fx Effects
	for _, sale := range sales {
		fx.Events = append(fx.Events, model.OutboundEvent{
			Name: model.EventSaleExpiring,
			Payload: map[string]any{
				"sale_id":      sale.SaleID,
				"client_id":    sale.ClientID,
				"client_name":  sale.ClientName,
				"client_email": sale.ClientEmail,
				"product_name": sale.ProductName,
				"end_date":     sale.EndDate.Format(model.DateLayout),
			},
		})
		if sale.AgentID != 0 {
			fx.UserNotifications = append(fx.UserNotifications, model.Notification{
				UserID: sale.AgentID,
				Title:  "Sale Expiring Soon",
				Message: fmt.Sprintf("Sale #%d (%s, %s) expires on %s.",
					sale.SaleID, sale.ClientName, sale.ProductName, sale.EndDate.Format(model.DateLayout)),
				Category: model.NotifySale,
			})
		}
	}

	report := &ExpiryReport{Day: day, Sales: sales, Warnings: len(fx.Events)}
	return report, fx, nil
}

// ExpiryScheduler runs the expiry warning scan on a fixed interval.
type ExpiryScheduler struct {
	expiry     *ExpiryService
	dispatcher *Dispatcher
	interval   time.Duration

	ticker    *time.Ticker
	stopCh    chan struct{}
	stopOnce  sync.Once
	isRunning bool
	mu        sync.Mutex
}

// NewExpiryScheduler creates the scheduler. interval <= 0 falls back to 24h.
func NewExpiryScheduler(expiry *ExpiryService, dispatcher *Dispatcher, interval time.Duration) *ExpiryScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &ExpiryScheduler{
		expiry:     expiry,
		dispatcher: dispatcher,
		interval:   interval,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the periodic scan. The first run happens shortly after
// startup rather than a full interval later.
func (s *ExpiryScheduler) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.ticker = time.NewTicker(s.interval)
	s.mu.Unlock()

	log.Printf("[ExpiryScheduler] Started - Interval: %v, Window: %d days",
		s.interval, s.expiry.windowDays)

	go func() {
		time.Sleep(1 * time.Minute)
		s.RunNow()
	}()

	go s.run()
}

func (s *ExpiryScheduler) run() {
	for {
		select {
		case <-s.ticker.C:
			s.RunNow()
		case <-s.stopCh:
			log.Printf("[ExpiryScheduler] Stopped")
			return
		}
	}
}

// RunNow executes one scan immediately and dispatches its effects.
func (s *ExpiryScheduler) RunNow() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, fx, err := s.expiry.RunExpiryWarnings(ctx, 0)
	if err != nil {
		log.Printf("[ExpiryScheduler] Scan failed: %v", err)
		return
	}
	if report.Warnings == 0 {
		log.Printf("[ExpiryScheduler] No sales expiring on %s", report.Day.Format(model.DateLayout))
		return
	}

	log.Printf("[ExpiryScheduler] %d sale(s) expiring on %s", report.Warnings, report.Day.Format(model.DateLayout))
	s.dispatcher.Dispatch(ctx, fx)
}

// Stop stops the scheduler.
func (s *ExpiryScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.isRunning {
			return
		}
		s.isRunning = false
		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.stopCh)
	})
}
