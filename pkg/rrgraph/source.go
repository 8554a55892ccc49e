package rrgraph

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"
)

// CompressedSuffix marks snappy-framed graph files
const CompressedSuffix = ".sz"

const s3Scheme = "s3://"

// Document is an opened graph that can be read any number of times
type Document struct {
	location string
	data     io.ReaderAt
	size     int64
	closer   io.Closer
}

// Location returns where the document was opened from
func (d *Document) Location() string {
	return d.location
}

// Size returns the uncompressed document size in bytes
func (d *Document) Size() int64 {
	return d.size
}

// NewReader returns a fresh reader positioned at the start of the document
func (d *Document) NewReader() io.Reader {
	return io.NewSectionReader(d.data, 0, d.size)
}

// Close releases the document
func (d *Document) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// ObjectGetter is the subset of the S3 client used to fetch remote graphs
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Opener opens graph documents from local paths or s3://bucket/key locations.
// Locations ending in ".sz" are snappy-framed and decompressed on open.
type Opener struct {
	// S3 is used for s3:// locations. When nil, a client is built from the default
	// AWS configuration on first use.
	S3 ObjectGetter

	once  sync.Once
	s3Err error
}

// Open opens the document at location
func (o *Opener) Open(ctx context.Context, location string) (*Document, error) {
	if strings.HasPrefix(location, s3Scheme) {
		return o.openS3(ctx, location)
	}
	return openLocal(location)
}

func openLocal(path string) (*Document, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to map %s: %w", path, err)
	}

	if !strings.HasSuffix(path, CompressedSuffix) {
		return &Document{
			location: path,
			data:     r,
			size:     int64(r.Len()),
			closer:   r,
		}, nil
	}

	defer r.Close()
	data, err := io.ReadAll(snappy.NewReader(io.NewSectionReader(r, 0, int64(r.Len()))))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	return memoryDocument(path, data), nil
}

func (o *Opener) openS3(ctx context.Context, location string) (*Document, error) {
	bucket, key, err := ParseS3Location(location)
	if err != nil {
		return nil, err
	}

	o.once.Do(func() {
		if o.S3 != nil {
			return
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			o.s3Err = fmt.Errorf("failed to load AWS config: %w", err)
			return
		}
		o.S3 = s3.NewFromConfig(cfg)
	})
	if o.s3Err != nil {
		return nil, o.s3Err
	}

	out, err := o.S3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}
	defer out.Body.Close()

	var body io.Reader = out.Body
	if strings.HasSuffix(key, CompressedSuffix) {
		body = snappy.NewReader(out.Body)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	return memoryDocument(location, data), nil
}

// ParseS3Location splits s3://bucket/key into its bucket and key
func ParseS3Location(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("%w: %q is not an s3 location", ErrUnsupportedSource, location)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q needs the form s3://bucket/key", ErrUnsupportedSource, location)
	}
	return bucket, key, nil
}

func memoryDocument(location string, data []byte) *Document {
	return &Document{
		location: location,
		data:     bytes.NewReader(data),
		size:     int64(len(data)),
	}
}

// NewMemoryDocument wraps an in-memory graph
func NewMemoryDocument(location string, data []byte) *Document {
	return memoryDocument(location, data)
}
