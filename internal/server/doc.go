// Package server is the HTTP front of the bot.
//
// It serves the LINE webhook and a small JSON API for operating the bot
// without a chat client.
//
// # Routes
//
//   - POST /webhook (configurable): LINE webhook. The body must carry a valid
//     X-Line-Signature. Events are answered with 200 as soon as the body has
//     been accepted and are processed in the background, so slow OCR never
//     causes LINE to redeliver.
//   - GET /healthz: OCR backend status and the active layouts.
//   - GET /api/commands: the chat command catalogue.
//   - POST /api/parse: parse OCR text (request body) into records and a report.
//     The optional layout query parameter selects a single layout.
//   - POST /api/ocr: run OCR on an uploaded image (multipart field "image" or
//     the raw body) and parse the result.
//   - GET /api/targets and PUT /api/targets: read and upsert daily targets.
//
// # Errors
//
// API errors are JSON objects with an "error" field. A parse that finds no
// table answers 422 with the same diagnostic text a chat user would see.
//
// # Shutdown
//
// Serve stops accepting connections when its context ends, then waits up to
// ShutdownTimeout for open requests and background webhook work to finish.
package server
