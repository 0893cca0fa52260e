// Package prof toggles the Go runtime profilers for one CLI invocation.
package prof

import (
	"errors"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Session owns the profiler outputs enabled by Start. The zero value is
// a session with every profiler off.
type Session struct {
	cpu      *os.File
	traceOut *os.File
	heapPath string
	stopped  bool
}

// Start enables the profilers whose paths are non-empty. The CPU
// profile and execution trace begin immediately; the heap profile is
// captured when Stop runs, after the work being measured.
func Start(cpuPath, tracePath, heapPath string) (*Session, error) {
	s := &Session{heapPath: heapPath}
	if cpuPath != "" {
		f, err := os.Create(cpuPath)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, err
		}
		s.cpu = f
	}
	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			s.shutdownCPU()
			return nil, err
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			s.shutdownCPU()
			return nil, err
		}
		s.traceOut = f
	}
	return s, nil
}

// Stop flushes and closes everything Start enabled, then captures the
// heap profile if one was requested. Safe on a nil session and safe to
// call more than once.
func (s *Session) Stop() error {
	if s == nil || s.stopped {
		return nil
	}
	s.stopped = true

	var errs []error
	if s.traceOut != nil {
		trace.Stop()
		errs = append(errs, s.traceOut.Close())
		s.traceOut = nil
	}
	if err := s.shutdownCPU(); err != nil {
		errs = append(errs, err)
	}
	if s.heapPath != "" {
		errs = append(errs, writeHeap(s.heapPath))
	}
	return errors.Join(errs...)
}

func (s *Session) shutdownCPU() error {
	if s.cpu == nil {
		return nil
	}
	pprof.StopCPUProfile()
	err := s.cpu.Close()
	s.cpu = nil
	return err
}

func writeHeap(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	// Collect dead objects first so the profile shows live memory.
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
