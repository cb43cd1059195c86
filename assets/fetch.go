package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/milk9111/vignette/future"
)

const fetchChunk = 32 << 10

// Fetch reads an asset in chunks, reporting the fraction read so far and
// giving up when ctx is cancelled.
func Fetch(ctx context.Context, path string, report future.Reporter) ([]byte, error) {
	f, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("assets: open %s: %w", path, err)
	}
	defer f.Close()

	var total int64
	if info, err := f.Stat(); err == nil {
		total = info.Size()
	}

	var buf bytes.Buffer
	if total > 0 {
		buf.Grow(int(total))
	}
	chunk := make([]byte, fetchChunk)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := f.Read(chunk)
		buf.Write(chunk[:n])
		if report != nil && total > 0 {
			report(float64(buf.Len()) / float64(total))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("assets: read %s: %w", path, err)
		}
	}
	return buf.Bytes(), nil
}
