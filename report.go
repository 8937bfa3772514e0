// Copyright 2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package protopgo

import (
	"bytes"
	"context"
	"errors"
	"io"
	"regexp"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"buf.build/go/protopgo/internal/accessinfo"
	"buf.build/go/protopgo/internal/pgo"
	"buf.build/go/protopgo/internal/resolve"
)

var (
	errNoSchema   = errors.New("no schema; use WithFiles or WithRegistry")
	errNeedFormat = errors.New("profile format must be given explicitly")
)

// Report loads a profile from source and writes a report of the optimizations
// it suggests to w.
//
// source may be a path, "-" for stdin, or an ssh:// or s3:// URL. Nothing is
// written to w unless the whole report succeeds. Errors match one of
// [ErrConfig], [ErrNotFound], [ErrCorrupt], or [ErrPattern].
func Report(ctx context.Context, w io.Writer, source string, opts ...Option) error {
	o := newOptions(opts)
	filter, err := o.validate()
	if err != nil {
		return err
	}

	ds, err := accessinfo.Load(ctx, source, o.format, o.source)
	if err != nil {
		return loadError(err)
	}
	return o.report(ctx, w, ds, filter)
}

// ReportDataset is like [Report], but for an already-loaded profile.
func ReportDataset(ctx context.Context, w io.Writer, dataset *Dataset, opts ...Option) error {
	o := newOptions(opts)
	filter, err := o.validate()
	if err != nil {
		return err
	}
	if dataset == nil || dataset.impl == nil {
		return &errReport{code: errCodeConfig, cause: errors.New("nil dataset")}
	}
	return o.report(ctx, w, dataset.impl, filter)
}

// validate checks everything that can be checked before loading a profile.
func (o *options) validate() (*regexp.Regexp, error) {
	if o.registry == nil {
		return nil, &errReport{code: errCodeConfig, cause: errNoSchema}
	}

	pattern := o.filter
	if pattern == "" {
		pattern = ".*"
	}
	filter, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &errReport{code: errCodePattern, cause: err}
	}
	return filter, nil
}

// report renders ds into w.
func (o *options) report(ctx context.Context, w io.Writer, ds *accessinfo.Dataset, filter *regexp.Regexp) error {
	resolver := &resolve.Resolver{
		Registry:  o.registry,
		Namespace: o.namespace,
		Nesting:   o.nesting,
		Logger:    o.logger,
	}
	th := o.thresholds(ds.UnlikelyUsedThreshold)

	var matched []*accessinfo.Message
	for _, m := range ds.Messages {
		if filter.MatchString(m.Name) {
			matched = append(matched, m)
		}
	}
	o.logger.Debug("generating report",
		zap.Int("messages", len(ds.Messages)),
		zap.Int("matched", len(matched)),
		zap.String("filter", filter.String()),
		zap.Float64("hot", th.Hot),
		zap.Float64("cold", th.Cold),
		zap.Uint64("unlikely_used", th.UnlikelyUsed),
	)

	// Each message renders into its own slot, so that the output is in
	// profile order no matter how the work is scheduled.
	sections := make([][]byte, len(matched))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)
	for i, m := range matched {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			md, ok := resolver.Resolve(m.Name)
			if !ok {
				return nil
			}

			analyzer := pgo.NewAnalyzer(m, th, o.layout)
			if !analyzer.HasProfile(md) {
				return nil
			}
			sections[i] = o.renderMessage(nil, md, analyzer)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "protopgo: report interrupted")
	}

	out := new(bytes.Buffer)
	if o.printThreshold {
		writePreamble(out, th.UnlikelyUsed)
	}
	for _, section := range sections {
		out.Write(section)
	}

	if _, err := w.Write(out.Bytes()); err != nil {
		return eris.Wrap(err, "protopgo: writing report")
	}
	return nil
}
