// Package extract drives a batch extraction: it walks the sections of an
// asset type in order, decodes every record and hands the images to a sink.
package extract

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/ndxkit/internal/logger"
	"github.com/joshuapare/ndxkit/pkg/catalog"
	"github.com/joshuapare/ndxkit/pkg/sink"
	"github.com/joshuapare/ndxkit/pkg/types"
)

// Source is the decoding surface the driver needs. *ndx.Asset implements it.
type Source interface {
	ResolveSection(id types.SectionID) (uint32, error)
	OffsetList(section uint32) ([]uint32, error)
	DecodeRecord(off uint32, cfg types.SectionConfig) (*image.NRGBA, error)
}

// Options controls a Driver run.
type Options struct {
	// Sections overrides the asset type's default selection. Numbered
	// sections in the exclusion list are still skipped.
	Sections []types.SectionID

	// Workers bounds concurrent encode+write jobs. Default: runtime.NumCPU().
	Workers int

	// Ext is the file extension used in output names. Default: "png".
	Ext string

	// Manifest, if set, receives one entry per written image.
	Manifest *sink.Manifest

	// Logger receives progress. Default: logger.L.
	Logger *slog.Logger
}

// Driver runs the pipeline for one asset type.
type Driver struct {
	src  Source
	typ  catalog.AssetType
	out  sink.Sink
	opts Options
	log  *slog.Logger
}

// New returns a Driver reading from src and writing to out.
func New(src Source, typ catalog.AssetType, out sink.Sink, opts Options) *Driver {
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Ext == "" {
		opts.Ext = sink.PNG.Ext()
	}
	log := opts.Logger
	if log == nil {
		log = logger.L
	}
	return &Driver{src: src, typ: typ, out: out, opts: opts, log: log}
}

// writeJob is one named image waiting to be encoded. The name is fixed
// before dispatch, so completion order does not affect output. A failed
// write leaves a gap in the section's file numbering.
type writeJob struct {
	seq     int
	name    string
	id      types.SectionID
	counter int
	offset  uint32
	img     *image.NRGBA
}

// run holds the mutable state of one Run call.
type run struct {
	d      *Driver
	report *Report
	mu     sync.Mutex // guards report.Written and report.FailedWrites
	seq    int
}

// Run processes the selected sections in order and waits for every write to
// finish. Section and write failures are recorded in the report; the
// returned error is non-nil only when ctx is cancelled.
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	ids := d.opts.Sections
	if ids == nil {
		ids = d.typ.DefaultSections()
	}

	r := &run{d: d, report: &Report{}}
	g := new(errgroup.Group)
	g.SetLimit(d.opts.Workers)

	var runErr error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		sr := r.section(id, g)
		r.report.Sections = append(r.report.Sections, sr)
	}

	_ = g.Wait() // jobs never return errors; failures land in the report

	d.log.Info("extraction finished",
		"asset", d.typ.Name,
		"images", r.report.Images,
		"written", r.report.Written,
		"skipped", r.report.Skipped,
		"failed_sections", r.report.FailedSections(),
		"failed_writes", len(r.report.FailedWrites),
	)
	return r.report, runErr
}

func (r *run) section(id types.SectionID, g *errgroup.Group) SectionReport {
	d := r.d
	sr := SectionReport{ID: id, Section: id.Value(), Config: d.typ.Config(id)}

	if !id.IsTag() && d.typ.IsExcluded(id.Value()) {
		sr.Excluded = true
		d.log.Debug("section excluded", "section", id.String())
		return sr
	}

	d.log.Info("parsing section", "section", id.String(), "images_total", r.report.Images)

	if err := sr.Config.Validate(); err != nil {
		sr.Err = fmt.Errorf("section %s: %w", id, err)
		d.log.Warn("section failed", "section", id.String(), "error", sr.Err)
		return sr
	}
	section, err := d.src.ResolveSection(id)
	if err != nil {
		sr.Err = err
		d.log.Warn("section failed", "section", id.String(), "error", err)
		return sr
	}
	sr.Section = section

	offsets, err := d.src.OffsetList(section)
	if err != nil {
		sr.Err = err
		d.log.Warn("section failed", "section", id.String(), "error", err)
		return sr
	}
	sr.Offsets = len(offsets)

	counter := 0
	for _, off := range offsets {
		img, err := d.src.DecodeRecord(off, sr.Config)
		if err != nil {
			sr.Skipped++
			r.report.Skipped++
			if errors.Is(err, types.ErrSkipped) {
				d.log.Debug("record skipped", "section", id.String(), "offset", off, "reason", err)
			} else {
				d.log.Warn("record failed", "section", id.String(), "offset", off, "error", err)
			}
			continue
		}

		job := writeJob{
			seq:     r.seq,
			name:    fmt.Sprintf("%s-%d.%s", id, counter, d.opts.Ext),
			id:      id,
			counter: counter,
			offset:  off,
			img:     img,
		}
		counter++
		r.seq++
		sr.Images++
		r.report.Images++

		g.Go(func() error {
			r.write(job)
			return nil
		})
	}

	d.log.Info("section done",
		"section", id.String(),
		"offsets", sr.Offsets,
		"images", sr.Images,
		"skipped", sr.Skipped,
		"images_total", r.report.Images,
	)
	return sr
}

func (r *run) write(job writeJob) {
	d := r.d
	w, err := d.out.Write(job.name, job.img)
	if err != nil {
		d.log.Error("write failed", "name", job.name, "error", err)
		r.mu.Lock()
		r.report.FailedWrites = append(r.report.FailedWrites, WriteError{Name: job.name, Section: job.id, Err: err})
		r.mu.Unlock()
		return
	}

	r.mu.Lock()
	r.report.Written++
	r.mu.Unlock()

	if d.opts.Manifest != nil {
		b := job.img.Bounds()
		d.opts.Manifest.Add(sink.Entry{
			Seq:       job.seq,
			Name:      job.name,
			Section:   job.id.String(),
			Counter:   job.counter,
			Offset:    job.offset,
			Width:     b.Dx(),
			Height:    b.Dy(),
			PixelHash: sink.PixelHash(job.img),
			Digest:    w.Digest,
			Size:      w.Size,
		})
	}
}
