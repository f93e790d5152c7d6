package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	m "github.com/varmint-dev/varmint/internal/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		result m.ProcessResult
		want   m.OutcomeKind
	}{
		{
			name:   "passing suite misses the mutant",
			result: m.ProcessResult{ExitCode: 0},
			want:   m.OutcomeMissed,
		},
		{
			name:   "failing suite catches the mutant",
			result: m.ProcessResult{ExitCode: 1, Output: "--- FAIL: TestAdd"},
			want:   m.OutcomeCaught,
		},
		{
			name:   "build failure is unviable",
			result: m.ProcessResult{ExitCode: 1, Output: "FAIL\tpkg [build failed]"},
			want:   m.OutcomeUnviable,
		},
		{
			name:   "setup failure is unviable",
			result: m.ProcessResult{ExitCode: 1, Output: "FAIL\tpkg [setup failed]"},
			want:   m.OutcomeUnviable,
		},
		{
			name:   "timeout wins over exit code",
			result: m.ProcessResult{ExitCode: 0, TimedOut: true},
			want:   m.OutcomeTimeout,
		},
		{
			name:   "timeout wins over build failure markers",
			result: m.ProcessResult{ExitCode: 1, Output: "[build failed]", TimedOut: true},
			want:   m.OutcomeTimeout,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.result))
		})
	}
}
