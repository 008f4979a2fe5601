package gen

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"
)

// File is a rendered, formatted Go source file.
type File struct {
	Name    string // relative to the target directory
	Content []byte
}

// WriterMetrics tracks generation performance.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
	RenderTime     time.Duration
	FormatTime     time.Duration
	WriteTime      time.Duration
}

// writer renders Jennifer files and writes them to the output directory.
// It is safe for concurrent use.
type writer struct {
	outDir string

	mu      sync.Mutex
	metrics WriterMetrics
}

var formatOptions = &imports.Options{
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
	FormatOnly: true,
}

// render renders f and runs it through goimports formatting. When the
// source does not format, the failure is dumped next to the target file
// with an ".error" suffix for debugging.
func (w *writer) render(name string, f *jen.File) (*File, error) {
	start := time.Now()
	var buf bytes.Buffer
	err := f.Render(&buf)
	rendered := time.Now()
	if err != nil {
		w.dump(name, []byte(err.Error()))
		return nil, NewGenerationError("render", name, "", err)
	}
	formatted, err := imports.Process(filepath.Join(w.outDir, name), buf.Bytes(), formatOptions)
	if err != nil {
		w.dump(name, buf.Bytes())
		return nil, NewGenerationError("format", name, "", err)
	}
	w.mu.Lock()
	w.metrics.RenderTime += rendered.Sub(start)
	w.metrics.FormatTime += time.Since(rendered)
	w.mu.Unlock()
	return &File{Name: name, Content: formatted}, nil
}

// write stores a rendered file under the output directory.
func (w *writer) write(f *File) error {
	start := time.Now()
	path := filepath.Join(w.outDir, f.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return NewGenerationError("write", f.Name, "create directory", err)
	}
	if err := os.WriteFile(path, f.Content, 0o644); err != nil {
		return NewGenerationError("write", f.Name, "", err)
	}
	w.mu.Lock()
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += int64(len(f.Content))
	w.metrics.WriteTime += time.Since(start)
	w.mu.Unlock()
	return nil
}

// dump writes debug output; errors are ignored as generation already failed.
func (w *writer) dump(name string, content []byte) {
	if w.outDir == "" {
		return
	}
	path := filepath.Join(w.outDir, name+".error")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	_ = os.WriteFile(path, content, 0o644)
}

// snapshot returns a copy of the metrics.
func (w *writer) snapshot() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}
