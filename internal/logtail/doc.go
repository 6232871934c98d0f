// Package logtail reads the tail of the client log for the activity panel.
//
// # Reading
//
// Read returns the last maxLines of a file using a ring buffer, so memory
// stays O(maxLines) however large the log grows. A missing file is not an
// error; the panel is simply empty until the first line is written.
//
// # Parsing
//
// The client logs through slog's text handler. Parse turns a line such as
//
//	time=2026-03-01T09:00:00.000Z level=INFO msg="item bought" kind=cat cost=100
//
// into an Entry with Time, Level, Message and the remaining attributes in
// order. Quoted values are unescaped. Anything that does not look like
// key=value pairs is kept verbatim as the Message.
package logtail
