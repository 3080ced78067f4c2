package main

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/alnah/go-nowiki"
)

// fakeConverter is a Converter with canned behavior for batch tests.
// Inputs containing "fail" return errFake; inputs containing "change"
// round-trip with a mismatch at byte 1.
type fakeConverter struct {
	calls atomic.Int32
}

var errFake = errors.New("fake conversion failure")

func (f *fakeConverter) ToHTML(_ context.Context, s string) (*nowiki.Result, error) {
	f.calls.Add(1)
	if strings.Contains(s, "fail") {
		return nil, errFake
	}
	return &nowiki.Result{HTML: "<p>" + s + "</p>"}, nil
}

func (f *fakeConverter) ToWikitext(_ context.Context, s string) (string, error) {
	f.calls.Add(1)
	if strings.Contains(s, "fail") {
		return "", errFake
	}
	return strings.TrimSuffix(strings.TrimPrefix(s, "<p>"), "</p>"), nil
}

func (f *fakeConverter) RoundTrip(_ context.Context, s string) (*nowiki.RoundTripResult, error) {
	f.calls.Add(1)
	switch {
	case strings.Contains(s, "fail"):
		return nil, errFake
	case strings.Contains(s, "change"):
		res := &nowiki.RoundTripResult{Input: s, Output: s + "!", MismatchAt: 1}
		return res, nowiki.ErrRoundTripMismatch
	default:
		return &nowiki.RoundTripResult{Input: s, Output: s, Equal: true, MismatchAt: -1}, nil
	}
}
