package source

import (
	"context"
	"time"

	"github.com/martinsuchenak/assetboard/internal/log"
	"github.com/martinsuchenak/assetboard/internal/model"
)

const (
	FallbackSample = "sample"
	FallbackEmpty  = "empty"
)

// Result is one fetch of the raw asset list
type Result struct {
	Assets   []model.Asset
	Source   string
	Fallback bool  // the substitute set was served
	Err      error // the primary source error behind a fallback
}

// Fallback wraps a primary source so a failed fetch never reaches the
// caller: the error is logged and a substitute record set is served instead.
type Fallback struct {
	primary Source
	mode    string
	timeout time.Duration
}

// NewFallback wraps primary. mode is FallbackSample or FallbackEmpty; any
// other value means FallbackSample. A positive timeout bounds each fetch.
func NewFallback(primary Source, mode string, timeout time.Duration) *Fallback {
	if mode != FallbackEmpty {
		mode = FallbackSample
	}
	return &Fallback{primary: primary, mode: mode, timeout: timeout}
}

func (f *Fallback) Name() string { return f.primary.Name() }

// Mode returns the fallback mode
func (f *Fallback) Mode() string { return f.mode }

// QueryAssets implements Source and never returns an error
func (f *Fallback) QueryAssets(ctx context.Context, realm string) ([]model.Asset, error) {
	return f.Fetch(ctx, realm).Assets, nil
}

// Fetch queries the primary source, substituting on failure
func (f *Fallback) Fetch(ctx context.Context, realm string) Result {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	assets, err := f.primary.QueryAssets(ctx, realm)
	if err == nil {
		if assets == nil {
			assets = []model.Asset{}
		}
		return Result{Assets: assets, Source: f.primary.Name()}
	}

	log.Error("Asset source failed, using fallback", "source", f.primary.Name(), "realm", realm, "mode", f.mode, "error", err)

	res := Result{Source: f.mode, Fallback: true, Err: err}
	if f.mode == FallbackSample {
		res.Assets = SampleAssets(realm)
	} else {
		res.Assets = []model.Asset{}
	}
	return res
}
