package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"plain registered error": {
			err:      ErrUnauthorized,
			wantCode: ErrUnauthorized.code,
			wantLog:  "unauthorized",
		},
		"wrapped registered error": {
			err:      Wrap(Wrap(ErrNotFound, "safe"), "load"),
			wantCode: ErrNotFound.code,
			wantLog:  "load: safe: not found",
		},
		"nil is empty message": {
			err:      nil,
			wantCode: SuccessCode,
			wantLog:  "",
		},
		"stdlib is generic message": {
			err:      fmt.Errorf("cannot read file"),
			wantCode: 1,
			wantLog:  "internal error",
		},
		"wrapped stdlib is only a generic message": {
			err:      Wrap(fmt.Errorf("cannot read file"), "with context"),
			wantCode: 1,
			wantLog:  "internal error",
		},
		"stdlib is full message in debug mode": {
			err:      fmt.Errorf("cannot read file"),
			debug:    true,
			wantCode: 1,
			wantLog:  "cannot read file",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := Info(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if !strings.HasPrefix(log, tc.wantLog) {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	if err := run(); !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %v", err)
	}
}
