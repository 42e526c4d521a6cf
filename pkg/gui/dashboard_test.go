package gui

import (
	"sync"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/sirupsen/logrus"

	"github.com/mscrnt/vdash/pkg/config"
	"github.com/mscrnt/vdash/pkg/vehicle"
)

func TestChannelStatsConcurrentAccess(t *testing.T) {
	s := &channelStats{}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.add(float64(i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.summary()
			s.reset()
		}
	}()
	wg.Wait()

	s.reset()
	if _, _, _, ok := s.summary(); ok {
		t.Error("summary after reset should report no data")
	}

	s.add(10)
	s.add(20)
	min, max, avg, ok := s.summary()
	if !ok || min != 10 || max != 20 || avg != 15 {
		t.Errorf("summary = %v %v %v %v, want 10 20 15 true", min, max, avg, ok)
	}
}

func TestDashboardRestart(t *testing.T) {
	test.NewApp()

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	d := NewDashboard(config.Default(), vehicle.NewSimulator(vehicle.DefaultState()), log)
	d.Start()
	d.Stop()
	d.Start()
	d.Stop()
}

func TestDiagnosticsRestart(t *testing.T) {
	test.NewApp()

	d := NewDiagnostics()
	d.Start()
	d.Stop()
	d.Start()
	d.Stop()
}
