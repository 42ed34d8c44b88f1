package update

import "time"

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.Local)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func info(text string) StatusBar {
	return StatusBar{Text: text, IsError: false}
}

func failed(err error) StatusBar {
	return StatusBar{Text: err.Error(), IsError: true}
}
