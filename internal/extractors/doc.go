// Package extractors converts uploaded files into raw text. Each extractor
// handles a fixed set of file extensions; the Registry dispatches documents
// by their lower-cased extension.
package extractors
