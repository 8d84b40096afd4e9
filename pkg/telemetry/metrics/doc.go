// Package metrics provides Prometheus metrics for polyglot.
//
// A Collector is passed to the translation driver (translator.WithObserver)
// and the strategy resolver (strategy.WithObserver); batch and watch mode
// report whole documents through ObserveDocument.
//
// # Metrics
//
//	polyglot_translations_total{target,outcome}
//	polyglot_translation_duration_seconds{target}
//	polyglot_translation_parameters{target}
//	polyglot_anonymized_placeholders_total{family}
//	polyglot_strategy_constructions_total{strategy,kind,outcome}
//	polyglot_documents_total{mode,outcome}
//	polyglot_document_duration_seconds{mode}
//	polyglot_last_run_timestamp_seconds{mode}
//
// Outcomes are "success" or an error class such as "unsupported_literal".
//
// # Exposition
//
// Watch mode serves Handler on the configured listen address. One-shot
// commands write the registry with WriteTextfile for the node exporter
// textfile collector.
package metrics
