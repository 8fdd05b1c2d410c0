package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/doodget/doodozer/errs"
	"github.com/doodget/doodozer/internal/logger"
)

const (
	defaultChunkSizeBytes  = 1 << 20 // 1MB
	defaultMaxRetries      = 3       // chunk retries
	temporaryFileSuffix    = ".tmp"  // suffix for temp download
	initialBackoffDuration = 200 * time.Millisecond
	maxBackoffDuration     = 3 * time.Second
	copyBufferSizeBytes    = 32 * 1024 // 32KB

	headerRange          = "Range"
	headerContentRange   = "Content-Range"
	headerContentLength  = "Content-Length"
	headerContentType    = "Content-Type"
	headerUserAgent      = "User-Agent"
	headerAccept         = "Accept"
	headerAcceptLanguage = "Accept-Language"
	headerAcceptEncoding = "Accept-Encoding"
	headerReferer        = "Referer"
	headerConnection     = "Connection"

	successMinHTTPStatusCode      = 200
	successMaxHTTPStatusExclusive = 400

	userAgentValue = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36"
)

// Progress holds information about download progress.
type Progress struct {
	TotalSize      int64
	DownloadedSize int64
	Percent        float64
}

// Downloader is responsible for downloading media files with chunked HTTP
// requests, simple retry/backoff, and optional rate limiting.
//
// Referer is sent on every request when set; DoodStream media hosts reject
// requests without it.
type Downloader struct {
	Client       *http.Client
	ProgressFunc func(Progress)
	Referer      string
	UserAgent    string

	chunkSize    int64
	maxRetries   int
	rateLimitBps int64

	log *logger.ComponentLogger
}

// New creates a new downloader instance with sane defaults.
// If client is nil, a default http.Client is used. rateLimitBps=0 disables limiting.
func New(client *http.Client, progressFunc func(Progress), rateLimitBps int64) *Downloader {
	if client == nil {
		client = &http.Client{}
	}
	return &Downloader{
		Client:       client,
		ProgressFunc: progressFunc,
		UserAgent:    userAgentValue,
		chunkSize:    defaultChunkSizeBytes,
		maxRetries:   defaultMaxRetries,
		rateLimitBps: rateLimitBps,
		log:          logger.WithComponent(logger.ComponentDownloader),
	}
}

// WithReferer sets the Referer header sent with every media request.
func (d *Downloader) WithReferer(referer string) *Downloader {
	d.Referer = referer
	return d
}

func (d *Downloader) setHeaders(req *http.Request) {
	ua := d.UserAgent
	if ua == "" {
		ua = userAgentValue
	}
	req.Header.Set(headerUserAgent, ua)
	req.Header.Set(headerAccept, "*/*")
	req.Header.Set(headerAcceptLanguage, "en-US,en;q=0.9")
	req.Header.Set(headerAcceptEncoding, "identity")
	req.Header.Set(headerConnection, "keep-alive")
	if d.Referer != "" {
		req.Header.Set(headerReferer, d.Referer)
	}
}

// Probe tries HEAD first, then a GET with a bytes=0-1 range, to determine the
// total size and content type without downloading the body.
func (d *Downloader) Probe(ctx context.Context, urlStr string) (int64, string, error) {
	headReq, _ := http.NewRequestWithContext(ctx, "HEAD", urlStr, nil)
	d.setHeaders(headReq)

	headResp, err := d.Client.Do(headReq)
	if err == nil && headResp != nil {
		defer func() { _ = headResp.Body.Close() }()
		if size, ok := sizeFromHeaders(headResp.Header); ok {
			return size, headResp.Header.Get(headerContentType), nil
		}
	}

	// Fallback: GET bytes=0-1
	getReq, _ := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
	d.setHeaders(getReq)
	getReq.Header.Set(headerRange, "bytes=0-1")

	getResp, err := d.Client.Do(getReq)
	if err != nil {
		return 0, "", err
	}
	defer func() { _ = getResp.Body.Close() }()
	d.log.Debug("probe response", "status", getResp.StatusCode)
	if size, ok := sizeFromHeaders(getResp.Header); ok {
		return size, getResp.Header.Get(headerContentType), nil
	}
	return 0, getResp.Header.Get(headerContentType), errors.New("cannot determine total size")
}

// sizeFromHeaders extracts total size from Content-Range or Content-Length.
func sizeFromHeaders(h http.Header) (int64, bool) {
	if cr := h.Get(headerContentRange); cr != "" {
		parts := strings.Split(cr, "/")
		if len(parts) == 2 {
			if v, err := strconv.ParseInt(parts[1], 10, 64); err == nil {
				return v, true
			}
		}
		return 0, false
	}
	if cl := h.Get(headerContentLength); cl != "" {
		if v, err := strconv.ParseInt(cl, 10, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// sleepForRate enforces simple rate limit based on bytes written in this step.
func (d *Downloader) sleepForRate(written int64) {
	if d.rateLimitBps <= 0 || written <= 0 {
		return
	}
	dur := time.Duration(int64(time.Second) * written / d.rateLimitBps)
	if dur > 0 {
		time.Sleep(dur)
	}
}

// Download downloads a file by URL and saves it to outputPath. It supports
// resuming from an existing temporary file and reports progress periodically.
func (d *Downloader) Download(ctx context.Context, urlStr string, outputPath string) error {
	d.log.Debug("starting download", "path", outputPath)

	tmpPath := outputPath + temporaryFileSuffix
	var outFile *os.File
	var err error
	if _, statErr := os.Stat(tmpPath); statErr == nil {
		outFile, err = os.OpenFile(tmpPath, os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open tmp for append: %v", err)
		}
		d.log.Info("resuming from existing temp file")
	} else {
		outFile, err = os.Create(tmpPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %v", err)
		}
	}
	defer func() { _ = outFile.Close() }()

	currentInfo, _ := outFile.Stat()
	downloaded := currentInfo.Size()
	if downloaded > 0 {
		d.log.Debug("already downloaded", "bytes", downloaded)
	}

	totalSize, _, err := d.Probe(ctx, urlStr)
	if err != nil {
		d.log.Warn("could not determine total size, downloading without it", "err", err)
		totalSize = 0
	} else {
		d.log.Debug("total size", "bytes", totalSize)
	}

	for downloaded < totalSize || totalSize == 0 {
		start := downloaded
		end := start + d.chunkSize - 1
		if totalSize > 0 && end >= totalSize {
			end = totalSize - 1
		}

		var resp *http.Response
		var lastErr error
		backoff := initialBackoffDuration
		for attempt := 0; attempt < d.maxRetries; attempt++ {
			req, _ := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
			d.setHeaders(req)

			rangeVal := fmt.Sprintf("bytes=%d-%d", start, end)
			req.Header.Set(headerRange, rangeVal)
			d.log.Debug("requesting range", "range", rangeVal)

			resp, lastErr = d.Client.Do(req)
			if lastErr == nil && resp != nil && resp.StatusCode >= successMinHTTPStatusCode && resp.StatusCode < successMaxHTTPStatusExclusive {
				break
			}
			if resp != nil {
				if resp.Body != nil {
					_ = resp.Body.Close()
				}
				lastErr = fmt.Errorf("HTTP status %d", resp.StatusCode)
			}
			d.log.Debug("chunk request failed", "attempt", attempt+1, "err", lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoffDuration {
				backoff = maxBackoffDuration
			}
		}
		if lastErr != nil {
			return fmt.Errorf("download chunk failed: %v", lastErr)
		}
		if resp == nil {
			return fmt.Errorf("empty response")
		}

		buf := make([]byte, copyBufferSizeBytes)
		totalRead := int64(0)
		for {
			n, rerr := resp.Body.Read(buf)
			if n > 0 {
				if _, werr := outFile.Write(buf[:n]); werr != nil {
					_ = resp.Body.Close()
					return fmt.Errorf("failed to write chunk: %v", werr)
				}
				downloaded += int64(n)
				totalRead += int64(n)
				if d.ProgressFunc != nil {
					p := Progress{TotalSize: totalSize, DownloadedSize: downloaded}
					if totalSize > 0 {
						p.Percent = float64(downloaded) / float64(totalSize) * 100
					}
					d.ProgressFunc(p)
				}
				d.sleepForRate(int64(n))
			}
			if rerr == io.EOF {
				break
			}
			if rerr != nil {
				_ = resp.Body.Close()
				return fmt.Errorf("failed to read response body: %v", rerr)
			}
		}
		_ = resp.Body.Close()

		if totalSize == 0 {
			// Size unknown: a short chunk means the server has no more data
			if totalRead < d.chunkSize {
				break
			}
			continue
		}
		if downloaded >= totalSize {
			break
		}
	}

	if fi, err := os.Stat(tmpPath); err == nil {
		if fi.Size() == 0 {
			_ = os.Remove(tmpPath)
			return errs.ErrEmptyDownload
		}
	}

	return os.Rename(tmpPath, outputPath)
}
