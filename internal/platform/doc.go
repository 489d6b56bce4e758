package platform

// Package platform provides OS and input plumbing: downloads directory
// resolution, output file discovery, YouTube URL extraction from pasted text,
// engine progress line parsing, and playlist expansion.
