package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"cadenza/internal/dictionary"
	"cadenza/internal/generation"
)

// parseBatchInput reads one "term[,type[,language]]" request per line.
// Blank lines and lines starting with # are skipped.
func parseBatchInput(r io.Reader) ([]generation.Request, error) {
	var requests []generation.Request
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.SplitN(line, ",", 3)
		term := strings.TrimSpace(fields[0])
		if term == "" {
			return nil, fmt.Errorf("line %d: empty term", lineNo)
		}
		req := generation.Request{Term: term, Type: dictionary.TypeGeneral}
		if len(fields) > 1 {
			req.Type = dictionary.ParseTermType(fields[1])
		}
		if len(fields) > 2 {
			req.Language = strings.ToLower(strings.TrimSpace(fields[2]))
		}
		requests = append(requests, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch input: %w", err)
	}
	return requests, nil
}
