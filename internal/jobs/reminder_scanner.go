package jobs

import (
	"context"
	"log"
	"sync"
	"time"
)

// ReminderSource runs one sweep and reports how many reminders went out
type ReminderSource interface {
	Scan(ctx context.Context) (int, error)
}

// ReminderScanner periodically sweeps upcoming events and delivers
// day-before reminders to registered attendees
type ReminderScanner struct {
	source   ReminderSource
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewReminderScanner creates a new reminder scanner job
func NewReminderScanner(source ReminderSource, interval time.Duration) *ReminderScanner {
	if interval == 0 {
		interval = 15 * time.Minute // Default check every 15 minutes
	}
	return &ReminderScanner{
		source:   source,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the reminder scanner job
func (s *ReminderScanner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run()
	log.Printf("Reminder scanner started (interval: %v)", s.interval)
}

// Stop gracefully stops the reminder scanner job
func (s *ReminderScanner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	log.Println("Reminder scanner stopped")
}

// run is the main loop
func (s *ReminderScanner) run() {
	defer s.wg.Done()

	// Run immediately on start (but with a short delay to let services initialize)
	select {
	case <-time.After(5 * time.Second):
	case <-s.stopCh:
		return
	}
	s.scan()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.scan()
		case <-s.stopCh:
			return
		}
	}
}

// scan runs one reminder sweep with a bounded deadline
func (s *ReminderScanner) scan() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	sent, err := s.source.Scan(ctx)
	if err != nil {
		log.Printf("Error scanning reminders: %v", err)
		return
	}
	if sent > 0 {
		log.Printf("Delivered %d event reminders", sent)
	}
}

// RunOnce runs the reminder sweep once (for testing or manual trigger)
func (s *ReminderScanner) RunOnce(ctx context.Context) (int, error) {
	return s.source.Scan(ctx)
}

// IsRunning returns whether the scanner is running
func (s *ReminderScanner) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
