// Package downloads tracks the embed jobs (images, stylesheets) a
// parse discovers. The parser only records handles; renderers decide
// when and whether to fetch.
package downloads

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"
)

// Pending is one embed job. Data stays nil until Fetch runs.
type Pending struct {
	Path string

	mu      sync.Mutex
	data    []byte
	fetched bool
}

// HasData reports whether the job has been fetched successfully.
func (p *Pending) HasData() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetched && p.data != nil
}

// Data returns the fetched content, nil if the job never ran or failed.
func (p *Pending) Data() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data
}

// Fetch loads the job content: local files are read directly, anything
// else is fetched over HTTP. Only the first call does work.
func (p *Pending) Fetch(ctx context.Context, client *http.Client) error {
	p.mu.Lock()
	if p.fetched {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	data, err := load(ctx, client, p.Path)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetched = true
	if err != nil {
		return err
	}
	p.data = data
	return nil
}

func load(ctx context.Context, client *http.Client, path string) ([]byte, error) {
	if _, err := os.Stat(path); err == nil {
		return os.ReadFile(path)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", path, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embed %s: status %d", path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Manager is the registry of pending embed jobs shared by an import
// graph.
type Manager struct {
	mu      sync.Mutex
	pending []*Pending
}

func NewManager() *Manager { return &Manager{} }

// Add registers a new pending job and returns its handle.
func (m *Manager) Add(path string) *Pending {
	p := &Pending{Path: path}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, p)
	return p
}

// Jobs returns a snapshot of all registered jobs.
func (m *Manager) Jobs() []*Pending {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Pending, len(m.pending))
	copy(out, m.pending)
	return out
}

// FetchAll fetches every registered job with bounded concurrency.
// Failures are reported per job; the rest still run.
func (m *Manager) FetchAll(ctx context.Context, maxConcurrent int) []error {
	jobs := m.Jobs()
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	client := &http.Client{Timeout: 30 * time.Second}

	sem := make(chan struct{}, maxConcurrent)
	errCh := make(chan error, len(jobs))
	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(job *Pending) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := job.Fetch(ctx, client); err != nil {
				errCh <- err
			}
		}(job)
	}
	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	return errs
}
