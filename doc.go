// Package pdfbake generates PDF documents from YAML-configured SVG
// templates.
//
// Configuration cascades through four levels: a run configuration names
// documents, each document configuration may declare variants, and each
// page configuration picks an SVG template. Every level deep-merges its
// own YAML over the settings inherited from the level above, so later
// levels win key by key. Template expressions ({{ .key }}) in setting
// values are resolved against the settings themselves, to a fixed point,
// so settings can reference each other across levels.
//
// The Baker type drives the full pipeline: load, merge, resolve, render
// each page's template to SVG, convert to PDF through an external
// backend (inkscape or rsvg-convert), combine the pages and optionally
// compress the result with Ghostscript. A document can opt out of the
// standard pipeline with a custom bake script.
//
// Basic usage:
//
//	baker, err := pdfbake.NewBaker("main.yaml", pdfbake.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := baker.Bake(context.Background())
package pdfbake
