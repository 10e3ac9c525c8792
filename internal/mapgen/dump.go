package mapgen

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/talgya/hexworld/internal/world"
)

// Dump writes the three layers as text. Each layer starts with a
// "# name" line followed by one line per grid row.
func (r *Result) Dump(w io.Writer) error {
	g, err := r.Grid()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "# terrain %dx%d seed=%d type=%s size=%s\n", r.Rows, r.Columns, r.Seed, r.Type, r.Size); err != nil {
		return err
	}
	if err := world.DumpLayer(w, r.Columns, g.TerrainLayer()); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "# landscape\n"); err != nil {
		return err
	}
	if err := world.DumpLayer(w, r.Columns, g.LandscapeLayer()); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "# rivers\n"); err != nil {
		return err
	}
	return world.DumpLayer(w, r.Columns, g.RiverLayer())
}

// Flat returns the terrain layer on a single line.
func (r *Result) Flat() string {
	parts := make([]string, len(r.Terrain))
	for i, v := range r.Terrain {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

// WriteDump writes Dump to path, compressed with zstd when the path ends
// in ".zst".
func (r *Result) WriteDump(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := r.writeDump(f, strings.HasSuffix(path, ".zst")); err != nil {
		f.Close()
		return fmt.Errorf("dump %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("dump %s: %w", path, err)
	}
	return nil
}

// writeDump flushes every layer through to w. The zstd frame is only
// complete once the encoder is closed.
func (r *Result) writeDump(w io.Writer, compress bool) error {
	var enc *zstd.Encoder
	if compress {
		var err error
		if enc, err = zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault)); err != nil {
			return err
		}
		w = enc
	}

	bw := bufio.NewWriterSize(w, 64*1024)
	err := r.Dump(bw)
	if err == nil {
		err = bw.Flush()
	}
	if enc != nil {
		if cerr := enc.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// ReadDump returns the text of a dump written by WriteDump.
func ReadDump(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var rd io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return "", err
		}
		defer dec.Close()
		rd = dec
	}
	b, err := io.ReadAll(rd)
	if err != nil {
		return "", fmt.Errorf("read dump %s: %w", path, err)
	}
	return string(b), nil
}
