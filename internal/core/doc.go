// Package core implements the zip round-trip check.
//
// A check reads a named entry from a zip archive with the built-in reader,
// runs an external unzip tool against the same archive inside a scratch
// directory, and compares the file the tool wrote with the reference bytes.
//
// # Steps
//
//  1. Acquire a ScratchDir (released on every exit path)
//  2. Open the archive and read the entry (ArchiveReader)
//  3. Run the tool with the scratch directory as working directory (Executor)
//  4. Read the tool's output file (Harvester)
//  5. Compare byte-for-byte (Compare)
//
// Every failure is reported as a *CheckError tagged with an ErrorKind.
package core
