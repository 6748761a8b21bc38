// Package metrics records export run metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics
// collection never needs nil checks:
//
//	o := export.NewOrchestrator(runner, export.WithRecorder(metrics.NoopRecorder{}))
//
// PrometheusRecorder registers its collectors on a caller-supplied
// registry. Since kicadexport is a one-shot CLI there is no scrape
// endpoint; WriteTextfile dumps the registry in the text exposition format
// for the node-exporter textfile collector.
package metrics
