package gtarray

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

type readerAtCloser interface {
	io.ReaderAt
	io.Closer
}

// openSource opens a local path or a gs://bucket/object URL for random
// access.
func openSource(ctx context.Context, path string) (readerAtCloser, error) {
	if !strings.HasPrefix(path, "gs://") {
		file, err := os.Open(path)
		if err != nil {
			return nil, pfx.Err(err)
		}
		return file, nil
	}

	bucket, object, ok := strings.Cut(strings.TrimPrefix(path, "gs://"), "/")
	if !ok || bucket == "" || object == "" {
		return nil, pfx.Err(fmt.Errorf("%s is not a gs://bucket/object URL", path))
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, pfx.Err(err)
	}
	return &gcsReaderAt{
		ctx:    ctx,
		client: client,
		obj:    client.Bucket(bucket).Object(object),
	}, nil
}

// gcsReaderAt issues one ranged read per ReadAt call. Like *os.File it is
// safe for concurrent ReadAt calls.
type gcsReaderAt struct {
	ctx    context.Context
	client *storage.Client
	obj    *storage.ObjectHandle
}

func (g *gcsReaderAt) ReadAt(p []byte, off int64) (int, error) {
	r, err := g.obj.NewRangeReader(g.ctx, off, int64(len(p)))
	if err != nil {
		return 0, pfx.Err(err)
	}
	defer r.Close()

	n, err := io.ReadFull(r, p)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return n, err
}

func (g *gcsReaderAt) Close() error {
	return g.client.Close()
}
