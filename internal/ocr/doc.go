// Package ocr turns report photos into raw text.
//
// Two backends implement Extractor:
//
//   - Tesseract: local recognition through gosseract/v2, preceded by the
//     imaging preprocessing chain
//   - Gemini: a vision model asked to transcribe the image verbatim
//
// Both return the recognised text unmodified. Parsing belongs to the report
// package; an empty string is a valid result and means nothing was read.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// Language data files are required for each language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr-eng tesseract-ocr-tha
//
// Languages are combined with "+", e.g. "eng+tha". A custom data directory
// can be set with the tessdata prefix option.
//
// # Error Handling
//
// Backends return wrapped errors for undecodable images, engine failures and
// API failures. They never retry; the caller decides what to tell the user.
package ocr
