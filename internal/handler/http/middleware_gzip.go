// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

var (
	writers = sync.Pool{New: func() any { return gzip.NewWriter(nil) }}
	readers = sync.Pool{New: func() any { return new(gzip.Reader) }}
)

// withGZip accepts gzip encoded envelopes and compresses answers for clients
// that advertise gzip support.
func withGZip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hasGzip(r.Header.Get("Content-Encoding")) && r.Body != nil {
			body, err := inflate(r.Body)
			if err != nil {
				http.Error(w, "Invalid gzip data", http.StatusBadRequest)
				return
			}
			r.Body = body
			r.Header.Del("Content-Encoding")
		}

		if !hasGzip(r.Header.Get("Accept-Encoding")) {
			next.ServeHTTP(w, r)
			return
		}

		zw := writers.Get().(*gzip.Writer)
		zw.Reset(w)
		cw := &compressWriter{ResponseWriter: w, zw: zw}
		defer func() {
			// nothing was written through zw for bodiless answers
			if cw.compressing {
				_ = zw.Close()
			}
			writers.Put(zw)
		}()

		w.Header().Add("Vary", "Accept-Encoding")
		next.ServeHTTP(cw, r)
	})
}

func hasGzip(header string) bool {
	return strings.Contains(header, "gzip")
}

// inflate wraps body in a pooled gzip reader that goes back to the pool on
// Close.
func inflate(body io.ReadCloser) (io.ReadCloser, error) {
	zr := readers.Get().(*gzip.Reader)
	if err := zr.Reset(body); err != nil {
		readers.Put(zr)
		return nil, err
	}
	return &gzipBody{zr: zr, src: body}, nil
}

type gzipBody struct {
	zr  *gzip.Reader
	src io.Closer
}

func (b *gzipBody) Read(p []byte) (int, error) {
	return b.zr.Read(p)
}

func (b *gzipBody) Close() error {
	if b.zr == nil {
		return nil
	}
	_ = b.zr.Close()
	readers.Put(b.zr)
	b.zr = nil
	return b.src.Close()
}

type compressWriter struct {
	http.ResponseWriter
	zw          *gzip.Writer
	wroteHeader bool
	compressing bool
}

func (w *compressWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	if statusCode != http.StatusNoContent && statusCode != http.StatusNotModified {
		w.compressing = true
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length")
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *compressWriter) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if !w.compressing {
		return w.ResponseWriter.Write(data)
	}
	return w.zw.Write(data)
}
