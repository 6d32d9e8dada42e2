package subtitles

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"qascribe/internal/fileutil"
	"qascribe/internal/transcription"
)

// Millisecond separators for the two timestamp flavours.
const (
	SRTSeparator = ','
	VTTSeparator = '.'
)

const vttHeader = "WEBVTT"

// FormatTimestamp renders seconds as HH:MM:SS<sep>mmm. Milliseconds are rounded
// to the nearest unit; negative and NaN input clamps to zero. Hours are not
// wrapped, so very long recordings render more than two hour digits.
func FormatTimestamp(seconds float64, sep byte) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int64(math.Round(seconds * 1000))
	millis := total % 1000
	totalSeconds := total / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, secs, sep, millis)
}

// RenderSRT renders segments as numbered SRT cues separated by blank lines.
func RenderSRT(segments []transcription.Segment) []byte {
	var buf bytes.Buffer
	for i, seg := range segments {
		buf.WriteString(strconv.Itoa(i + 1))
		buf.WriteByte('\n')
		writeCue(&buf, seg, SRTSeparator)
	}
	return buf.Bytes()
}

// RenderVTT renders segments as a WebVTT document.
func RenderVTT(segments []transcription.Segment) []byte {
	var buf bytes.Buffer
	buf.WriteString(vttHeader)
	buf.WriteString("\n\n")
	for _, seg := range segments {
		writeCue(&buf, seg, VTTSeparator)
	}
	return buf.Bytes()
}

func writeCue(buf *bytes.Buffer, seg transcription.Segment, sep byte) {
	buf.WriteString(FormatTimestamp(seg.Start, sep))
	buf.WriteString(" --> ")
	buf.WriteString(FormatTimestamp(seg.End, sep))
	buf.WriteByte('\n')
	buf.WriteString(strings.TrimSpace(seg.Text))
	buf.WriteString("\n\n")
}

// WriteSRT renders segments to path.
func WriteSRT(path string, segments []transcription.Segment) error {
	if err := fileutil.WriteFileAtomic(path, RenderSRT(segments), 0o644); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}

// WriteVTT renders segments to path.
func WriteVTT(path string, segments []transcription.Segment) error {
	if err := fileutil.WriteFileAtomic(path, RenderVTT(segments), 0o644); err != nil {
		return fmt.Errorf("write vtt: %w", err)
	}
	return nil
}
