// Package metrics provides build metrics for readmegen.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default and does nothing, so the assembler never checks for nil.
//
//	rec := metrics.NewPrometheusRecorder(registry)
//	asm := assembler.New(src, assembler.WithRecorder(rec))
//
// readmegen is a one-shot CLI, so there is no scrape endpoint. Instead the
// registry can be written to a node_exporter textfile-collector file after the
// run with WriteTextfile.
package metrics
