// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package processor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	nrmv1 "jsonstrip/normalizer/api/v1"
	"jsonstrip/normalizer/internal/jsonc"
	"jsonstrip/normalizer/internal/loader"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/klog/v2"
)

type Processor struct {
	Settings    jsonc.CommentSettings
	Mode        nrmv1.Mode
	Output      *nrmv1.DataOptions
	Concurrency int
	Stdout      io.Writer
}

type Result struct {
	Path string
	// Changed reports whether normalization altered the file.
	Changed bool
	Err     error
	output  string
}

// ProcessFiles normalizes every path with at most Concurrency files in flight.
// Results are returned in the order of paths; the error aggregates every
// per-file failure.
func (p *Processor) ProcessFiles(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))

	var eg errgroup.Group
	eg.SetLimit(p.concurrency())
	for i, path := range paths {
		currentIndex := i
		currentPath := path
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[currentIndex] = Result{Path: currentPath, Err: err}
				return nil
			}
			results[currentIndex] = p.processFile(currentPath)
			return nil
		})
	}
	_ = eg.Wait()

	var errs []error
	for _, result := range results {
		if result.Err != nil {
			errs = append(errs, result.Err)
			continue
		}
		if p.Mode == nrmv1.ModeStdout || p.Mode == "" {
			if _, err := io.WriteString(p.stdout(), result.output); err != nil {
				return results, err
			}
		}
	}

	return results, utilerrors.NewAggregate(errs)
}

// ProcessStream normalizes r into w. The default output type is streamed
// without buffering the whole document.
func (p *Processor) ProcessStream(r io.Reader, w io.Writer) error {
	if isPassThrough(p.Output) {
		_, err := io.Copy(w, jsonc.NewReader(r, p.Settings))
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	output, err := p.render(data)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, output)
	return err
}

func (p *Processor) processFile(path string) Result {
	klog.V(3).Infof("Normalize file '%s'", path)
	result := Result{Path: path}

	original, normalized, err := p.readNormalized(path)
	if err != nil {
		klog.ErrorS(err, "Fail to normalize file", "path", path)
		result.Err = fmt.Errorf("%s: %w", path, err)
		return result
	}
	result.Changed = original != normalized

	switch p.Mode {
	case nrmv1.ModeWrite:
		if !result.Changed {
			klog.V(5).Infof("File '%s' is already normalized", path)
			return result
		}
		if err := writeFile(path, []byte(normalized)); err != nil {
			klog.ErrorS(err, "Fail to write normalized file", "path", path)
			result.Err = fmt.Errorf("%s: %w", path, err)
		}
	case nrmv1.ModeCheck:
	default:
		result.output = normalized
	}

	return result
}

func (p *Processor) readNormalized(path string) (string, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	if isPassThrough(p.Output) {
		// The tee sees the source bytes before they are rewritten.
		var original bytes.Buffer
		normalized, err := io.ReadAll(jsonc.NewReader(io.TeeReader(file, &original), p.Settings))
		if err != nil {
			return "", "", err
		}
		return original.String(), string(normalized), nil
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", "", err
	}
	output, err := p.render(data)
	if err != nil {
		return "", "", err
	}
	return string(data), output, nil
}

func (p *Processor) render(data []byte) (string, error) {
	if p.Output != nil && p.Output.KeyValues {
		settings, err := loader.ParseExport(data, p.Settings)
		if err != nil {
			return "", err
		}
		rawSettings := loader.NewRawSettings(settings, p.Output.TrimKeyPrefixes)
		return loader.CreateTypedSettings(rawSettings, p.Output, p.Settings)
	}

	return loader.RenderDocument(data, p.Output, p.Settings)
}

func (p *Processor) concurrency() int {
	if p.Concurrency > 0 {
		return p.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

func (p *Processor) stdout() io.Writer {
	if p.Stdout != nil {
		return p.Stdout
	}
	return os.Stdout
}

func isPassThrough(output *nrmv1.DataOptions) bool {
	return output == nil || (!output.KeyValues && (output.Type == "" || output.Type == nrmv1.Default))
}

// writeFile replaces path through a sibling temporary file, so a reader never
// observes a partially written document.
func writeFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	tmpPath := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := os.WriteFile(tmpPath, data, info.Mode().Perm()); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
