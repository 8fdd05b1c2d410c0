// Package doodozer provides a high-level API to download DoodStream videos.
//
// Features:
//   - Direct media URL resolution from /e/ and /d/ page URLs
//   - Chunked downloads with resume and progress reporting
//   - Safe filename derivation from the video title
package doodozer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/doodget/doodozer/doodstream"
	"github.com/doodget/doodozer/downloader"
	"github.com/doodget/doodozer/errs"
	"github.com/doodget/doodozer/internal/logger"
	"github.com/doodget/doodozer/internal/mimeext"
	internalSanitize "github.com/doodget/doodozer/internal/sanitize"
	"github.com/doodget/doodozer/types"
)

// DownloadOptions contains configuration for a single download invocation.
//
// Use chainable setters on Downloader to populate these options.
type DownloadOptions struct {
	OutputPath   string
	HTTPClient   *http.Client
	ProgressFunc func(Progress)
	RateLimitBps int64
	UserAgent    string
	Referer      string
}

// Progress describes current progress of an ongoing download.
type Progress struct {
	TotalSize      int64
	DownloadedSize int64
	Percent        float64
}

// Downloader provides a high-level API for resolving and downloading
// DoodStream videos using internal clients and helpers.
type Downloader struct {
	options DownloadOptions

	log *logger.ComponentLogger
}

// New creates a new Downloader instance with default options.
func New() *Downloader {
	return &Downloader{log: logger.WithComponent(logger.ComponentApp)}
}

// WithOutputPath sets the output file path. If empty, a safe filename is derived
// from the video title and mime extension. If a directory path is provided, a
// safe filename is derived and placed inside that directory.
func (d *Downloader) WithOutputPath(path string) *Downloader {
	d.options.OutputPath = path
	return d
}

// WithHTTPClient sets a custom HTTP client to be used for all network calls.
func (d *Downloader) WithHTTPClient(client *http.Client) *Downloader {
	d.options.HTTPClient = client
	return d
}

// WithProgress registers a callback that receives progress updates.
func (d *Downloader) WithProgress(f func(Progress)) *Downloader {
	d.options.ProgressFunc = f
	return d
}

// WithRateLimit sets a download rate limit in bytes per second. Zero disables limiting.
func (d *Downloader) WithRateLimit(bytesPerSecond int64) *Downloader {
	if bytesPerSecond < 0 {
		bytesPerSecond = 0
	}
	d.options.RateLimitBps = bytesPerSecond
	return d
}

// WithUserAgent overrides the User-Agent header for page and media requests.
func (d *Downloader) WithUserAgent(ua string) *Downloader {
	d.options.UserAgent = strings.TrimSpace(ua)
	return d
}

// WithReferer overrides the Referer header for page and media requests.
// When unset, the embed URL is used, which most mirrors require.
func (d *Downloader) WithReferer(referer string) *Downloader {
	d.options.Referer = strings.TrimSpace(referer)
	return d
}

// IsValidURL reports whether the input looks like a DoodStream video URL:
// it must have a scheme and host and contain an /e/ or /d/ path segment.
func IsValidURL(videoURL string) bool {
	u, err := url.Parse(videoURL)
	if err != nil {
		return false
	}
	if u.Scheme == "" || u.Host == "" {
		return false
	}
	return strings.Contains(u.Path, "/e/") || strings.Contains(u.Path, "/d/")
}

// Resolve performs the embed page fetch and URL resolution, returning the
// final media URL and basic info.
func (d *Downloader) Resolve(ctx context.Context, videoURL string) (string, *types.VideoInfo, error) {
	if !IsValidURL(videoURL) {
		return "", nil, errs.ErrInvalidURL
	}

	videoID, err := doodstream.VideoID(videoURL)
	if err != nil {
		return "", nil, err
	}
	d.log.Debug("resolving video", "id", videoID)

	ds := doodstream.New(d.options.HTTPClient)
	if d.options.UserAgent != "" {
		ds.WithUserAgent(d.options.UserAgent)
	}
	if d.options.Referer != "" {
		ds.WithReferer(d.options.Referer)
	}
	res, err := ds.ResolveDownloadURL(ctx, videoURL)
	if err != nil {
		return "", nil, err
	}

	info := &types.VideoInfo{
		ID:       videoID,
		Title:    res.Title,
		Domain:   res.Domain,
		PageURL:  videoURL,
		EmbedURL: res.EmbedURL,
		Token:    res.Token,
	}
	return res.DirectURL, info, nil
}

// Download resolves the video URL and downloads the media to disk.
func (d *Downloader) Download(ctx context.Context, videoURL string) (*types.VideoInfo, error) {
	finalURL, info, err := d.Resolve(ctx, videoURL)
	if err != nil {
		return nil, err
	}

	dl := downloader.New(d.options.HTTPClient, func(p downloader.Progress) {
		if d.options.ProgressFunc != nil {
			d.options.ProgressFunc(Progress{TotalSize: p.TotalSize, DownloadedSize: p.DownloadedSize, Percent: p.Percent})
		}
	}, d.options.RateLimitBps)
	referer := d.options.Referer
	if referer == "" {
		referer = info.EmbedURL
	}
	dl.WithReferer(referer)
	if d.options.UserAgent != "" {
		dl.UserAgent = d.options.UserAgent
	}

	outputPath, err := d.resolveOutputPath(ctx, dl, finalURL, info)
	if err != nil {
		return nil, err
	}
	d.log.Info("saving video", "path", outputPath)

	if err := dl.Download(ctx, finalURL, outputPath); err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	return info, nil
}

// resolveOutputPath derives the final file path from the configured output
// path and the video title. The media content type is probed only when a
// filename has to be invented.
func (d *Downloader) resolveOutputPath(ctx context.Context, dl *downloader.Downloader, finalURL string, info *types.VideoInfo) (string, error) {
	outputPath := d.options.OutputPath
	if outputPath != "" {
		fi, statErr := os.Stat(outputPath)
		if statErr != nil || !fi.IsDir() {
			return outputPath, nil
		}
		// Directory: derive a safe filename and join
		name := internalSanitize.ToSafeFilename(info.DisplayTitle(), d.probeExt(ctx, dl, finalURL))
		return filepath.Join(outputPath, name), nil
	}
	return internalSanitize.ToSafeFilename(info.DisplayTitle(), d.probeExt(ctx, dl, finalURL)), nil
}

func (d *Downloader) probeExt(ctx context.Context, dl *downloader.Downloader, finalURL string) string {
	_, mime, err := dl.Probe(ctx, finalURL)
	if err != nil {
		return mimeext.DefaultExt
	}
	return mimeext.ExtFromMime(mime)
}
