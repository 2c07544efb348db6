package domain

import "strings"

// BatchSize is the number of addresses submitted to the analytics service
// as one job. The last batch of a submission may be smaller.
const BatchSize = 5

// ParseSubmission splits raw multi-line message text into an ordered list of
// wallet addresses. Lines are trimmed; empty lines are discarded. No other
// normalization happens here: the analytics service is the authority on
// whether an address is valid.
func ParseSubmission(text string) []string {
	var addrs []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		addrs = append(addrs, line)
	}
	return addrs
}

// SplitBatches partitions addresses into batches of BatchSize, preserving
// order: batch i contains addresses [BatchSize*i, BatchSize*(i+1)).
func SplitBatches(addrs []string) [][]string {
	var batches [][]string
	for i := 0; i < len(addrs); i += BatchSize {
		end := i + BatchSize
		if end > len(addrs) {
			end = len(addrs)
		}
		batches = append(batches, addrs[i:end])
	}
	return batches
}
