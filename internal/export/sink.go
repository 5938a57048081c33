// Package export writes rendered frames as PNG objects into a gocloud blob
// bucket: a local directory, an in-memory bucket or any registered provider.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"

	"twinconsole/internal/frame"
)

const tracerName = "twinconsole/internal/export"

// tracer resolves against the current global provider so a provider installed
// after package init still receives the spans.
func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(tracerName)
}

// ErrEmptyName is returned when a frame is written without an object name.
var ErrEmptyName = errors.New("export: empty frame name")

// Metadata keys attached to every exported frame.
const (
	MetaParams   = "params"
	MetaWarnings = "warnings"
)

// Sink stores frames in a bucket.
type Sink struct {
	bucket *blob.Bucket
	dest   string
}

// Option tunes how Open sets up the bucket.
type Option func(*options)

type options struct {
	noSidecar bool
}

// WithoutSidecar stops a local directory sink from writing the
// "<name>.attrs" file that holds content type and metadata. Use it when the
// operator picked the file and expects nothing else next to it.
func WithoutSidecar() Option {
	return func(o *options) {
		o.noSidecar = true
	}
}

// Open opens the sink at dest. A dest without a URL scheme is a local
// directory, created if missing; anything else is handed to blob.OpenBucket
// (file://, mem://, ...).
func Open(ctx context.Context, dest string, opts ...Option) (*Sink, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var (
		bucket *blob.Bucket
		err    error
	)
	if strings.Contains(dest, "://") {
		bucket, err = blob.OpenBucket(ctx, dest)
	} else {
		if dest == "" {
			dest = "."
		}
		var dir string
		if dir, err = filepath.Abs(dest); err == nil {
			fo := &fileblob.Options{CreateDir: true, NoTempDir: true}
			if o.noSidecar {
				fo.Metadata = fileblob.MetadataDontWrite
			}
			bucket, err = fileblob.OpenBucket(dir, fo)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("opening frame sink %q: %w", dest, err)
	}
	return &Sink{bucket: bucket, dest: dest}, nil
}

// String reports where frames are written.
func (s *Sink) String() string {
	return s.dest
}

// WriteFrame PNG-encodes img under name. The params line and the number of
// warnings they raise are stored as object metadata.
func (s *Sink) WriteFrame(ctx context.Context, name string, img image.Image, p frame.Params) (err error) {
	if name == "" {
		return ErrEmptyName
	}
	ctx, span := tracer().Start(ctx, "export.WriteFrame")
	span.SetAttributes(
		attribute.String("frame.name", name),
		attribute.Int("frame.width", img.Bounds().Dx()),
		attribute.Int("frame.height", img.Bounds().Dy()),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	w, err := s.bucket.NewWriter(wctx, name, &blob.WriterOptions{
		ContentType: "image/png",
		Metadata: map[string]string{
			MetaParams:   p.String(),
			MetaWarnings: strconv.Itoa(len(frame.Warnings(p))),
		},
	})
	if err != nil {
		return fmt.Errorf("creating %q: %w", name, err)
	}
	if err := png.Encode(w, img); err != nil {
		// Cancelling before Close aborts the write instead of committing a
		// truncated object.
		cancel()
		_ = w.Close()
		return fmt.Errorf("encoding %q: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("writing %q: %w", name, err)
	}
	return nil
}

// Close releases the bucket.
func (s *Sink) Close() error {
	return s.bucket.Close()
}
