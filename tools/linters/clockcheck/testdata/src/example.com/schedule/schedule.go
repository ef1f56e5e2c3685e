package schedule

import "time"

func label(now time.Time) string {
	return now.Format("Mon Jan 2")
}

func today() string {
	return label(time.Now().UTC()) // want `time.Now\(\) in a clock-free package`
}

func parse(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
