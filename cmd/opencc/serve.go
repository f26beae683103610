package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/npillmayer/opencc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/unicode/norm"
)

// maxRequestBody limits the size of a text posted to /convert.
const maxRequestBody = 8 << 20

func serve(f flags, conv *opencc.Converter) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	srv := &http.Server{
		Addr:              f.serve,
		Handler:           newHandler(newConverterSet(f.config, conv, f.options()...), f.nfc),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newHandler(set *converterSet, nfc bool) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(conversionsTotal, convertedBytes, conversionSeconds, requestErrors,
		dictionaryCollector{set: set})
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("POST /convert", convertHandler{set: set, nfc: nfc})
	return mux
}

// convertHandler converts the request body with the configuration named by
// the "config" query parameter, or the default configuration.
type convertHandler struct {
	set *converterSet
	nfc bool
}

func (h convertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	label, conv, err := h.set.get(r.URL.Query().Get("config"))
	if err != nil {
		requestErrors.WithLabelValues("config").Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		requestErrors.WithLabelValues("body").Inc()
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	text := string(body)
	if h.nfc {
		text = norm.NFC.String(text)
	}
	start := time.Now()
	out := conv.Convert(text)
	conversionSeconds.WithLabelValues(label).Observe(time.Since(start).Seconds())
	conversionsTotal.WithLabelValues(label).Inc()
	convertedBytes.WithLabelValues(label).Add(float64(len(body)))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, out)
}
