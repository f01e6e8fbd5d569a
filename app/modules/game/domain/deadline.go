package gamedomain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"
)

var timerSegment = regexp.MustCompile(`(\d+)\s*(day|hour|minute)s?`)

// EstimateDeadline turns timer text such as "2 days and 5 hours left" into an
// absolute time relative to now. It returns nil when the text carries no
// recognizable duration.
func EstimateDeadline(timeLeft *string, now time.Time) *time.Time {
	if timeLeft == nil {
		return nil
	}

	segments := timerSegment.FindAllStringSubmatch(strings.ToLower(*timeLeft), -1)
	if len(segments) == 0 {
		return nil
	}

	w := when.New(nil)
	w.Add(en.All...)

	deadline := now
	for _, seg := range segments {
		r, err := w.Parse(fmt.Sprintf("in %s %ss", seg[1], seg[2]), deadline)
		if err != nil || r == nil {
			return nil
		}
		deadline = r.Time
	}

	if !deadline.After(now) {
		return nil
	}
	return &deadline
}
