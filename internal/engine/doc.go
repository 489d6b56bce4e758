package engine

// Package engine wraps the external yt-dlp binary behind a small capability
// interface so the orchestrator can be tested against a stub. It builds the
// subprocess invocation, scans progress lines, classifies exits, and locates
// the produced audio file.
