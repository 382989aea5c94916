// Copyright 2020-2025 Buf Technologies, Inc.
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

package oak

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/bufbuild/oak/parser"
	"github.com/bufbuild/oak/session"
	"github.com/bufbuild/oak/source"
)

// Input is a file to parse with [Parser.ParseAll].
type Input struct {
	Path string
	Text string
}

// Result is the parse of one [Input].
type Result struct {
	File     *source.File
	Frontend *Frontend
	Output   parser.Output
}

// Parser parses batches of files in parallel.
type Parser struct {
	// Registry picks the frontend for each file. Required.
	Registry *Registry

	// MaxParallelism is the maximum number of files parsed at once. If zero
	// or negative, it is the number of CPUs, or GOMAXPROCS if lower.
	MaxParallelism int

	// Logger receives debug logs from each file's session. If nil, logs are
	// discarded.
	Logger *log.Logger
}

// ParseAll parses inputs with p's registry. See [Parser.ParseAll].
func ParseAll(ctx context.Context, registry *Registry, inputs ...Input) ([]Result, error) {
	p := Parser{Registry: registry}
	return p.ParseAll(ctx, inputs...)
}

// ParseAll parses every input, returning results in the same order.
//
// Syntax errors are not errors here: they are reported in each result's
// output. ParseAll fails if a file has no frontend, or if ctx is cancelled
// before every file is parsed.
func (p *Parser) ParseAll(ctx context.Context, inputs ...Input) ([]Result, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	par := p.MaxParallelism
	if par <= 0 {
		par = min(runtime.GOMAXPROCS(-1), runtime.NumCPU())
	}
	logger := p.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	sema := semaphore.NewWeighted(int64(par))
	group, gctx := errgroup.WithContext(ctx)
	results := make([]Result, len(inputs))

	var err error
	for i, in := range inputs {
		if err = sema.Acquire(gctx, 1); err != nil {
			break
		}
		group.Go(func() error {
			defer sema.Release(1)
			if err := gctx.Err(); err != nil {
				return err
			}

			file := source.NewFile(in.Path, in.Text)
			fe, ok := p.Registry.Lookup(in.Path, []byte(in.Text))
			if !ok {
				return fmt.Errorf("oak: %s: %w", in.Path, ErrUnknownLanguage)
			}

			sess := session.New(session.WithLogger(logger.With("path", in.Path)))
			results[i] = Result{
				File:     file,
				Frontend: fe,
				Output:   sess.Parse(fe.Lexer, fe.grammar(), file, nil),
			}
			return nil
		})
	}

	if werr := group.Wait(); werr != nil {
		return nil, werr
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
