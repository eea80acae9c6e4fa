package services

import (
	"fmt"
	"time"

	"github.com/Arjun-407/voucherverse/utils"
)

// Sweeper periodically releases reservations whose window has lapsed,
// marking the orders EXPIRED and returning their codes to the pool. The
// AWAITING_PAYMENT -> {PAID, EXPIRED} race against payment confirmation is
// arbitrated inside OrderService.ExpireReservation; the sweeper never
// expires an order a confirmation already consumed.
type Sweeper struct {
	ledger   *OrderService
	notifier Notifier
	interval time.Duration

	stop chan struct{}
	done chan struct{}
}

// NewSweeper creates a sweeper that ticks at the given interval.
func NewSweeper(ledger *OrderService, notifier Notifier, interval time.Duration) *Sweeper {
	return &Sweeper{
		ledger:   ledger,
		notifier: notifier,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in a background goroutine.
func (s *Sweeper) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		utils.LogInfo("Reservation sweeper started with interval %v", s.interval)
		for {
			select {
			case <-ticker.C:
				s.SweepOnce(time.Now())
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the sweep loop and waits for it to exit.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

// SweepOnce expires every order whose reservation lapsed before now and
// returns the number of orders expired. A failure on one order is logged and
// does not block the rest of the tick; the order is retried next tick.
func (s *Sweeper) SweepOnce(now time.Time) int {
	ids, err := s.ledger.FindExpired(now)
	if err != nil {
		utils.LogError("Sweep failed to list expired orders: %v", err)
		return 0
	}

	expired := 0
	for _, id := range ids {
		ok, err := s.ledger.ExpireReservation(id)
		if err != nil {
			utils.LogError("Sweep failed to expire order %d: %v", id, err)
			continue
		}
		if !ok {
			// Lost the race to a payment confirmation.
			utils.LogInfo("Sweep skipped order %d: no longer awaiting payment", id)
			continue
		}
		expired++
		utils.LogInfo("Sweep expired order %d", id)
		s.notifyExpiry(id)
	}
	return expired
}

func (s *Sweeper) notifyExpiry(orderID uint) {
	if s.notifier == nil {
		return
	}
	order, err := s.ledger.GetOrder(orderID)
	if err != nil {
		utils.LogError("Sweep could not load order %d for notification: %v", orderID, err)
		return
	}
	body := fmt.Sprintf("Your reservation for order #%d has expired. Please create a new order if you still want vouchers.", order.ID)
	if err := s.notifier.Notify(&order.User, "Voucher reservation expired", body); err != nil {
		utils.LogError("Could not notify user %d about expiry of order %d: %v", order.UserID, order.ID, err)
	}
}
