package scraper

import (
	"context"

	"substackscraper/helpers"
)

// fakeSession is a scripted Session for state-machine tests
type fakeSession struct {
	heights    []int64
	heightIdx  int
	scrolls    int
	navErr     error
	navCalls   int
	content    string
	contentErr error
	closeCalls int
}

func (f *fakeSession) Navigate(ctx context.Context, url string) error {
	f.navCalls++
	return f.navErr
}

func (f *fakeSession) ScrollHeight(ctx context.Context) (int64, error) {
	if f.heightIdx < len(f.heights) {
		h := f.heights[f.heightIdx]
		f.heightIdx++
		return h, nil
	}
	if len(f.heights) == 0 {
		return 0, nil
	}
	return f.heights[len(f.heights)-1], nil
}

func (f *fakeSession) ScrollToBottom(ctx context.Context) error {
	f.scrolls++
	return nil
}

func (f *fakeSession) Content(ctx context.Context) (string, error) {
	return f.content, f.contentErr
}

func (f *fakeSession) Close() error {
	f.closeCalls++
	return nil
}

// instantSleeper records waits and returns immediately
type instantSleeper struct {
	calls int
}

func (s *instantSleeper) Sleep(ctx context.Context, r helpers.WaitRange) error {
	s.calls++
	return ctx.Err()
}
