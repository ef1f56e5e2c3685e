package a

import "time"

func bad() {
	_ = time.Now() // want `time.Now\(\) should be followed by .UTC\(\)`
}

func good() {
	_ = time.Now().UTC()
}

func assigned() {
	t := time.Now() // want `time.Now\(\) should be followed by .UTC\(\)`
	_ = t
}

func chained() {
	_ = time.Now().UTC().Format(time.RFC3339)
}

func truncated() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func clockField() func() time.Time {
	return func() time.Time { return time.Now().UTC() }
}

func hostZone(t time.Time) {
	_ = t.Local()       // want `Time.Local\(\) uses the host zone`
	_ = t.In(time.Local) // want `time.Local is the host zone`
}

func configuredZone(t time.Time, loc *time.Location) {
	_ = t.In(loc)
	_ = t.UTC()
}

func nolintGeneral() {
	//nolint
	_ = time.Now()
}

func nolintSpecific() {
	_ = time.Now() //nolint:clockcheck
}

func nolintList() {
	_ = time.Now() //nolint:errcheck,clockcheck
}

func nolintOtherLinter() {
	_ = time.Now() //nolint:otherlinter // want `time.Now\(\) should be followed by .UTC\(\)`
}
