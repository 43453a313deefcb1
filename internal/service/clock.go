package service

import "time"

// Clock abstracts time.Now so attempt-expiry logic is testable with a frozen
// clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
