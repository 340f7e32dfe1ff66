package scanner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"orb-scanner/internal/types"
)

type stubSource struct {
	mu    sync.Mutex
	calls int
	data  map[string][]types.Bar
	err   error
}

func (s *stubSource) IntradayBars(ctx context.Context, symbols []string) (map[string][]types.Bar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.data, s.err
}

type stubEngine struct {
	mu     sync.Mutex
	alerts []types.Alert
	fired  bool
}

func (s *stubEngine) Step(ctx context.Context, symbol string, bars []types.Bar) []types.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fired {
		return nil
	}
	s.fired = true
	return s.alerts
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (s *stubNotifier) Send(ctx context.Context, title, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, title)
	return s.err
}

func testBars() map[string][]types.Bar {
	return map[string][]types.Bar{
		"TEST": {{Ts: time.Now(), Open: 100, High: 101, Low: 99, Close: 100, Volume: 500}},
	}
}

func TestScannerDispatchesEngineAlerts(t *testing.T) {
	src := &stubSource{data: testBars()}
	eng := &stubEngine{alerts: []types.Alert{{Symbol: "TEST", Direction: types.Long, Price: 101}}}
	ntf := &stubNotifier{}

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	s := New(10*time.Millisecond, []string{"TEST"}, src, eng, ntf)
	if err := s.Run(ctx); err != nil {
		t.Fatal(err)
	}

	ntf.mu.Lock()
	defer ntf.mu.Unlock()
	if len(ntf.sent) != 1 {
		t.Errorf("expected 1 dispatched alert, got %d", len(ntf.sent))
	}
}

func TestScannerPollsImmediately(t *testing.T) {
	src := &stubSource{data: testBars()}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Interval far longer than the test: the only fetch that can happen is
	// the startup one.
	s := New(time.Hour, []string{"TEST"}, src, &stubEngine{}, &stubNotifier{})
	if err := s.Run(ctx); err != nil {
		t.Fatal(err)
	}

	src.mu.Lock()
	defer src.mu.Unlock()
	if src.calls != 1 {
		t.Errorf("expected one fetch at startup, got %d", src.calls)
	}
}

func TestScannerSurvivesFetchErrors(t *testing.T) {
	src := &stubSource{err: errors.New("network down")}
	ntf := &stubNotifier{}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	s := New(10*time.Millisecond, []string{"TEST"}, src, &stubEngine{}, ntf)
	if err := s.Run(ctx); err != nil {
		t.Fatal(err)
	}

	src.mu.Lock()
	defer src.mu.Unlock()
	if src.calls < 2 {
		t.Errorf("expected the loop to keep polling after errors, got %d calls", src.calls)
	}
}

func TestScannerSurvivesNotifierErrors(t *testing.T) {
	src := &stubSource{data: testBars()}
	eng := &stubEngine{alerts: []types.Alert{{Symbol: "TEST", Direction: types.Long}}}
	ntf := &stubNotifier{err: errors.New("push rejected")}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	s := New(10*time.Millisecond, []string{"TEST"}, src, eng, ntf)
	if err := s.Run(ctx); err != nil {
		t.Fatal(err)
	}
}
