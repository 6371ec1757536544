package httpx

import "time"

type Option func(*LoggingRoundTripper)

func WithLogFieldMaxLen(logFieldMaxLen int) Option {
	return func(rt *LoggingRoundTripper) {
		rt.logFieldMaxLen = logFieldMaxLen
	}
}

func WithSensitiveDataMasker(sensitiveDataMasker sensitiveDataMasker) Option {
	return func(rt *LoggingRoundTripper) {
		rt.sensitiveDataMasker = sensitiveDataMasker
	}
}

// WithObserver registers a callback invoked after every completed round trip.
// Status is 0 when the transport itself failed.
func WithObserver(observer func(host string, status int, elapsed time.Duration)) Option {
	return func(rt *LoggingRoundTripper) {
		rt.observer = observer
	}
}
