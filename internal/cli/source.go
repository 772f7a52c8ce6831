package cli

import (
	"context"

	perrors "github.com/matzehuels/pyramidr/pkg/errors"
	"github.com/matzehuels/pyramidr/pkg/httputil"
	"github.com/matzehuels/pyramidr/pkg/pipeline"
)

// validateInput checks a local input exists. URLs are checked when fetched.
func validateInput(input string) error {
	if httputil.IsURL(input) {
		return nil
	}
	return perrors.ValidateInputFile(input)
}

// loadSource decodes the input image from a file or an http(s) URL.
// Downloads go through the runner's cache.
func loadSource(ctx context.Context, runner *pipeline.Runner, input string) (*pipeline.Source, error) {
	if !httputil.IsURL(input) {
		return pipeline.ParseSourceFile(input)
	}
	data, cached, err := httputil.NewFetcher(runner.Cache).Fetch(ctx, input)
	if err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Debug("fetched source", "url", input, "bytes", len(data), "cached", cached)
	return pipeline.ParseSource(data)
}
