// Package bot turns LINE webhook events into chat replies.
//
// An image message runs the full pipeline: the photo is downloaded, OCR'd,
// parsed into sales records with the first matching layout, compared against
// the stored targets and rendered as a daily summary. Text messages drive a
// small command set (see Commands) for reading and changing targets.
//
// Every processed message gets a reply. Collaborator failures are logged and
// answered with one of the fixed texts in Replies; nothing is retried.
package bot
