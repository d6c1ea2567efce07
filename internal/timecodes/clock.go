// Package timecodes attaches temporal anchors to generated section headings
// and provides the timestamp parsing shared with the transcript reader.
package timecodes

import (
	"fmt"
	"regexp"
	"strconv"
)

// srtTimeRe matches the SRT timestamp form HH:MM:SS,mmm.
var srtTimeRe = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2}),(\d{3})$`)

// ParseSRTTime converts "HH:MM:SS,mmm" into seconds.
func ParseSRTTime(s string) (float64, error) {
	m := srtTimeRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid SRT timestamp %q", s)
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	ss, _ := strconv.Atoi(m[3])
	ms, _ := strconv.Atoi(m[4])
	return float64(hh*3600+mm*60+ss) + float64(ms)/1000.0, nil
}

// FormatHMS renders seconds as "HH:MM:SS", rounding to the nearest second
// and clamping negatives to zero.
func FormatHMS(seconds float64) string {
	total := int(seconds + 0.5)
	if total < 0 {
		total = 0
	}
	hh := total / 3600
	mm := (total % 3600) / 60
	ss := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hh, mm, ss)
}
