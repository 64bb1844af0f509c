// Package raster rasterizes overlay documents and labels on a bounded pool of
// workers and composites them into a single transparent overlay.
package raster

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/jamesrr39/semaphore"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"github.com/kiesman99/staticmap/internal/markup"
	"github.com/kiesman99/staticmap/internal/surface"
)

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 2

// Layer is one feature class serialized as one or more documents.
type Layer struct {
	Class string
	Docs  [][]byte
}

// Task is everything a worker needs to produce an overlay. It shares no
// state with the submitter.
type Task struct {
	Width, Height int
	// Layers are composited in slice order.
	Layers []Layer
	// Labels are drawn above every layer.
	Labels []markup.Label
}

// Future is the pending result of a submitted task.
type Future struct {
	done chan struct{}
	img  *image.RGBA
	err  error
}

// Wait blocks until the task has finished or ctx is done.
func (f *Future) Wait(ctx context.Context) (*image.RGBA, error) {
	select {
	case <-f.done:
		return f.img, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Pool runs rasterization tasks with a fixed upper bound on concurrency.
type Pool struct {
	sema   *semaphore.Semaphore
	text   *TextRenderer
	logger logrus.FieldLogger
}

// NewPool creates a pool with the given number of workers.
func NewPool(workers int, logger logrus.FieldLogger) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Pool{
		sema:   semaphore.NewSemaphore(uint(workers)),
		text:   NewTextRenderer(nil),
		logger: logger,
	}
}

// Submit queues a task and returns immediately.
func (p *Pool) Submit(ctx context.Context, task Task) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		p.sema.Add()
		defer p.sema.Done()
		f.img, f.err = p.run(ctx, task)
	}()
	return f
}

// Running returns the number of tasks currently holding a worker.
func (p *Pool) Running() int {
	return p.sema.CurrentlyRunning()
}

// Close waits for all submitted tasks to finish.
func (p *Pool) Close() {
	p.sema.Wait()
}

func (p *Pool) run(ctx context.Context, task Task) (*image.RGBA, error) {
	if task.Width <= 0 || task.Height <= 0 {
		return nil, fmt.Errorf("invalid overlay size %dx%d", task.Width, task.Height)
	}

	start := time.Now()
	p.logger.Debug("Start compose overlay")

	overlay := surface.New(task.Width, task.Height)
	for _, layer := range task.Layers {
		if len(layer.Docs) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		layerStart := time.Now()
		img, err := RasterizeAll(layer.Docs, task.Width, task.Height)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", layer.Class, err)
		}
		draw.Draw(overlay, overlay.Bounds(), img, image.Point{}, draw.Over)
		p.logger.WithFields(logrus.Fields{
			"layer":  layer.Class,
			"chunks": len(layer.Docs),
			"took":   time.Since(layerStart),
		}).Debug("Finish drawing layer")
	}

	if len(task.Labels) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.text.Draw(overlay, task.Labels); err != nil {
			return nil, fmt.Errorf("text: %w", err)
		}
	}

	p.logger.WithField("took", time.Since(start)).Debug("Finish compose overlay")
	return overlay, nil
}
