package cmd

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/kiesman99/staticmap/internal/staticmap"
)

// progress shows render milestones on a progress bar and logs their timing.
type progress struct {
	bar    *pb.ProgressBar
	logger logrus.FieldLogger
}

func newProgress(out io.Writer, logger logrus.FieldLogger) *progress {
	bar := pb.New(len(staticmap.Stages)).Prefix("Rendering : ")
	bar.Output = out
	bar.ShowSpeed = false
	bar.ShowTimeLeft = false
	bar.SetRefreshRate(100 * time.Millisecond)
	return &progress{bar: bar, logger: logger}
}

func (p *progress) Start() {
	p.bar.Start()
}

func (p *progress) Observe(e staticmap.Event) {
	fields := logrus.Fields{"stage": e.Stage, "zoom": e.Zoom, "took": e.Took}
	if e.Stage == staticmap.StageBaseLayerReady {
		fields["tiles"] = e.Tiles
		fields["failed"] = e.FailedTiles
	}
	p.logger.WithFields(fields).Debug("Render stage finished")
	p.bar.Increment()
}

func (p *progress) Finish() {
	p.bar.Finish()
}
