// Portions Copyright (c) Microsoft Corporation.

/*
Copyright 2023.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"k8s.io/klog/v2"

	nrmv1 "jsonstrip/normalizer/api/v1"
	"jsonstrip/normalizer/internal/config"
	"jsonstrip/normalizer/internal/loader"
	"jsonstrip/normalizer/internal/processor"
	"jsonstrip/normalizer/internal/properties"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	klog.Flush()
	os.Exit(code)
}

type options struct {
	configPath         string
	preset             string
	noBlockComments    bool
	noSlashComments    bool
	noHashComments     bool
	keepTrailingCommas bool
	write              bool
	check              bool
	output             string
	separator          string
	keyValues          bool
	exclude            string
	concurrency        int
	version            bool
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet(properties.ModuleName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] [file or pattern ...]\n\nWithout files the standard input is normalized to the standard output.\n\n", properties.ModuleName)
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.configPath, "config", "", "Path of a YAML or JSON configuration file.")
	fs.StringVar(&opts.preset, "preset", "", "Comment styles to remove: all, hash or c.")
	fs.BoolVar(&opts.noBlockComments, "no-block-comments", false, "Keep /* block */ comments.")
	fs.BoolVar(&opts.noSlashComments, "no-slash-comments", false, "Keep // line comments.")
	fs.BoolVar(&opts.noHashComments, "no-hash-comments", false, "Keep # line comments.")
	fs.BoolVar(&opts.keepTrailingCommas, "keep-trailing-commas", false, "Keep trailing commas.")
	fs.BoolVar(&opts.write, "w", false, "Write the result back to the files instead of the standard output.")
	fs.BoolVar(&opts.check, "check", false, "List the files that are not normalized and exit with status 1 if there are any.")
	fs.StringVar(&opts.output, "output", "", "Output format: default, json, yaml or properties.")
	fs.StringVar(&opts.separator, "separator", "", "Key separator of the json, yaml and properties output.")
	fs.BoolVar(&opts.keyValues, "key-values", false, "Read the input as an App Configuration key-value export.")
	fs.StringVar(&opts.exclude, "exclude", "", "Glob pattern of files to skip.")
	fs.IntVar(&opts.concurrency, "concurrency", 0, "Maximum number of files processed at the same time, 0 means the number of CPUs.")
	fs.BoolVar(&opts.version, "version", false, "Print the version and exit.")
	klog.InitFlags(fs)

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}

	if opts.version {
		fmt.Fprintf(stdout, "%s %s\n", properties.ModuleName, properties.ModuleVersion)
		return exitOK
	}

	cfg, err := buildConfiguration(fs, &opts)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if err := config.Verify(cfg); err != nil {
		klog.ErrorS(err, "Invalid configuration")
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	p := &processor.Processor{
		Settings:    config.CommentSettings(cfg),
		Mode:        cfg.Mode,
		Output:      cfg.Output,
		Concurrency: cfg.Concurrency,
		Stdout:      stdout,
	}

	if len(cfg.Include) == 0 {
		if cfg.Mode == nrmv1.ModeWrite || cfg.Mode == nrmv1.ModeCheck {
			fmt.Fprintf(stderr, "mode %s requires at least one file\n", cfg.Mode)
			return exitUsage
		}
		if err := p.ProcessStream(stdin, stdout); err != nil {
			fmt.Fprintf(stderr, "<stdin>: %v\n", err)
			return exitFailure
		}
		return exitOK
	}

	paths, err := processor.ExpandInputs(cfg.Include, cfg.Exclude)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	klog.V(3).Infof("Normalize %d files", len(paths))

	results, err := p.ProcessFiles(ctx, paths)
	code := exitOK
	if cfg.Mode == nrmv1.ModeCheck {
		for _, result := range results {
			if result.Err == nil && result.Changed {
				fmt.Fprintln(stdout, result.Path)
				code = exitFailure
			}
		}
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	return code
}

// buildConfiguration loads the configuration file, if any, and applies the
// flags that were set explicitly on top of it.
func buildConfiguration(fs *flag.FlagSet, opts *options) (*nrmv1.NormalizerConfiguration, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if opts.write && opts.check {
		return nil, loader.NewArgumentError("w", fmt.Errorf("-w and -check can not be used together"))
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "preset":
			cfg.Preset = nrmv1.Preset(opts.preset)
		case "no-block-comments":
			commentOptions(cfg).BlockComments = to.Ptr(!opts.noBlockComments)
		case "no-slash-comments":
			commentOptions(cfg).SlashLineComments = to.Ptr(!opts.noSlashComments)
		case "no-hash-comments":
			commentOptions(cfg).HashLineComments = to.Ptr(!opts.noHashComments)
		case "keep-trailing-commas":
			commentOptions(cfg).TrailingCommas = to.Ptr(!opts.keepTrailingCommas)
		case "w":
			if opts.write {
				cfg.Mode = nrmv1.ModeWrite
			}
		case "check":
			if opts.check {
				cfg.Mode = nrmv1.ModeCheck
			}
		case "output":
			dataOptions(cfg).Type = nrmv1.DataType(opts.output)
		case "separator":
			dataOptions(cfg).Separator = to.Ptr(opts.separator)
		case "key-values":
			dataOptions(cfg).KeyValues = opts.keyValues
		case "exclude":
			cfg.Exclude = append(cfg.Exclude, opts.exclude)
		case "concurrency":
			cfg.Concurrency = opts.concurrency
		}
	})

	if fs.NArg() > 0 {
		cfg.Include = fs.Args()
	}

	return cfg, nil
}

func commentOptions(cfg *nrmv1.NormalizerConfiguration) *nrmv1.CommentOptions {
	if cfg.Comments == nil {
		cfg.Comments = &nrmv1.CommentOptions{}
	}
	return cfg.Comments
}

func dataOptions(cfg *nrmv1.NormalizerConfiguration) *nrmv1.DataOptions {
	if cfg.Output == nil {
		cfg.Output = &nrmv1.DataOptions{}
	}
	return cfg.Output
}
