package subtitles

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// CountCues returns the number of non-empty cue blocks in an SRT or VTT file.
// The WEBVTT header block is not counted.
func CountCues(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read subtitles: %w", err)
	}
	content := strings.TrimSpace(strings.ReplaceAll(string(data), "\r\n", "\n"))
	if content == "" {
		return 0, nil
	}
	count := 0
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" || block == vttHeader {
			continue
		}
		count++
	}
	return count, nil
}

// Bounds returns the earliest cue start and latest cue end in seconds.
func Bounds(path string) (float64, float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read subtitles: %w", err)
	}
	first := math.Inf(1)
	var last float64
	found := false
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.Contains(line, "-->") {
			continue
		}
		parts := strings.Split(line, "-->")
		if len(parts) != 2 {
			continue
		}
		if start, err := ParseTimestamp(parts[0]); err == nil {
			if start < first {
				first = start
			}
			found = true
		}
		if end, err := ParseTimestamp(parts[1]); err == nil && end > last {
			last = end
		}
	}
	if !found {
		return 0, last, nil
	}
	return first, last, nil
}

// ParseTimestamp parses HH:MM:SS,mmm or HH:MM:SS.mmm into seconds.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// Validate checks a rendered subtitle file for format issues. An empty slice
// means validation passed.
func Validate(path string) []string {
	var issues []string

	cues, err := CountCues(path)
	if err != nil {
		return append(issues, fmt.Sprintf("read_error: %v", err))
	}
	if cues == 0 {
		return append(issues, "empty_subtitle_file")
	}

	first, last, err := Bounds(path)
	if err != nil {
		issues = append(issues, fmt.Sprintf("timestamp_parse_error: %v", err))
	} else if first == 0 && last == 0 {
		issues = append(issues, "no_valid_timestamps")
	} else if last < first {
		issues = append(issues, "inverted_bounds")
	}
	return issues
}
