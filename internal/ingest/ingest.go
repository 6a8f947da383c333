package ingest

// DirStats summarizes one directory listing.
type DirStats struct {
	Scanned uint32 // directory entries seen
	Files   uint32 // regular files handed to the pipeline
	Matched uint32 // files with a supported extension
	Locked  uint32 // lock-marker files left out
	Dirs    uint32 // subdirectories left out
}
