package pager

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// digestSchedule is a parsed digest timetable. The pager accepts standard
// 5-field cron expressions (minute, hour, dom, month, dow); parsing
// happens once, at daemon startup.
type digestSchedule struct {
	sched cron.Schedule
}

func parseDigestSchedule(expr string) (*digestSchedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("pager: digest schedule %q: %w", expr, err)
	}
	return &digestSchedule{sched: sched}, nil
}

// untilNext returns the wait from now until the next digest fires.
func (s *digestSchedule) untilNext(now time.Time) time.Duration {
	d := s.sched.Next(now).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
