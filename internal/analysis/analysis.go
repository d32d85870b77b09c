// Package analysis derives the extension breakdown and listing fingerprint
// for a repository's file list.
package analysis

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// OtherBucket collects files whose name carries no usable extension.
const OtherBucket = "other"

// Summary is the result of analyzing one complete file listing.
type Summary struct {
	RepoLabel   string
	TotalFiles  int
	ByExtension map[string]int
	Fingerprint uint64
}

// ExtensionCount pairs one extension with its file count.
type ExtensionCount struct {
	Extension string `json:"extension"`
	Count     int    `json:"count"`
}

// Summarize computes the summary over the full listing. Empty entries are
// ignored; duplicates count every occurrence.
func Summarize(repoLabel string, paths []string) Summary {
	counts := CountExtensions(paths)
	total := 0
	for _, count := range counts {
		total += count
	}
	return Summary{
		RepoLabel:   repoLabel,
		TotalFiles:  total,
		ByExtension: counts,
		Fingerprint: Fingerprint(paths),
	}
}

// Counts returns the breakdown ordered by count descending, then extension
// ascending, so rendering is deterministic.
func (s Summary) Counts() []ExtensionCount {
	counts := make([]ExtensionCount, 0, len(s.ByExtension))
	for extension, count := range s.ByExtension {
		counts = append(counts, ExtensionCount{Extension: extension, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Extension < counts[j].Extension
	})
	return counts
}

// CountExtensions tallies paths by lowercased extension, using OtherBucket
// for names without one.
func CountExtensions(paths []string) map[string]int {
	counts := make(map[string]int)
	for _, path := range paths {
		if path == "" {
			continue
		}
		counts[Extension(path)]++
	}
	return counts
}

// Extension returns the lowercased trailing extension of the path's final
// segment, or OtherBucket when the segment has none. The extension test
// matches the tree classifier: a last dot followed by at least one character
// that is not a dot, slash or backslash.
func Extension(path string) string {
	segment := path
	if slash := strings.LastIndexByte(segment, '/'); slash >= 0 {
		segment = segment[slash+1:]
	}
	dot := strings.LastIndexByte(segment, '.')
	if dot < 0 || dot == len(segment)-1 {
		return OtherBucket
	}
	extension := segment[dot+1:]
	if strings.ContainsAny(extension, `./\`) {
		return OtherBucket
	}
	return strings.ToLower(extension)
}

// Fingerprint hashes the listing in order, NUL-delimited. Two identical
// listings share a fingerprint; reordering or editing the list changes it.
func Fingerprint(paths []string) uint64 {
	digest := xxhash.New()
	for _, path := range paths {
		_, _ = digest.WriteString(path)
		_, _ = digest.Write([]byte{0})
	}
	return digest.Sum64()
}
