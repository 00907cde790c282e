// Package transcript fetches and renders the full transcript body
// referenced by a meeting_transcript message.
//
// Transcripts are large and rarely opened, so they are fetched lazily
// and never cached: each open re-fetches, trading a small repeated-fetch
// cost for simplicity and a bounded client footprint. A fetch failure is
// surfaced verbatim; retrying is a fresh user-triggered call.
//
// Markdown and HTML renderings back the CLI's transcript export.
package transcript
