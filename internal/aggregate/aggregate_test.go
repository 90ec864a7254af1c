package aggregate

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/appcli/internal/command"
	apperrors "github.com/Aman-CERP/appcli/internal/errors"
	"github.com/Aman-CERP/appcli/internal/source"
)

// fakeSource records whether it was queried.
type fakeSource struct {
	name  string
	cmds  []string
	err   error
	panic bool
	calls int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Commands(context.Context) ([]command.Command, error) {
	f.calls++
	if f.panic {
		panic("source exploded")
	}
	out := make([]command.Command, len(f.cmds))
	for i, n := range f.cmds {
		out[i] = command.Command{Name: n, Description: f.name + " " + n}
	}
	return out, f.err
}

type gatedSource struct {
	fakeSource
	available bool
	gateErr   error
}

func (g *gatedSource) Available(context.Context) (bool, error) {
	return g.available, g.gateErr
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestAggregate_SecondSourceFailsThirdNeverInvoked(t *testing.T) {
	// Given: three sources where the second fails after the first produced 2
	first := &fakeSource{name: "first", cmds: []string{"a", "b"}}
	second := &fakeSource{name: "second", err: errors.New("boom")}
	third := &fakeSource{name: "third", cmds: []string{"c", "d", "e"}}

	// When: aggregating
	agg := New(WithLogger(quietLogger()))
	reg, err := agg.Aggregate(context.Background(), []source.Source{first, second, third})

	// Then: exactly the first source's commands, a deferred error, third untouched
	require.NotNil(t, reg)
	assert.Equal(t, []string{"a", "b"}, reg.Names())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSourceFailed, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "boom")
	assert.Zero(t, third.calls)

	report := agg.Report()
	require.Len(t, report, 3)
	assert.Equal(t, OutcomeMerged, report[0].Outcome)
	assert.Equal(t, OutcomeFailed, report[1].Outcome)
	assert.Equal(t, OutcomeNotAttempted, report[2].Outcome)
}

func TestAggregate_LaterSourceOverridesByName(t *testing.T) {
	// Given: sources producing {a,b} then {b,c}
	s1 := &fakeSource{name: "s1", cmds: []string{"a", "b"}}
	s2 := &fakeSource{name: "s2", cmds: []string{"b", "c"}}

	// When: aggregating
	agg := New(WithLogger(quietLogger()))
	reg, err := agg.Aggregate(context.Background(), []source.Source{s1, s2})

	// Then: three entries with b from the later source
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, reg.Names())
	b, ok := reg.Get("b")
	require.True(t, ok)
	assert.Equal(t, "s2", b.Source)
	assert.Equal(t, "s2 b", b.Description)
	assert.Equal(t, 1, agg.Report()[1].Overridden)
}

func TestAggregate_UnavailableSourceSkippedSilently(t *testing.T) {
	// Given: a gated source that is absent between two normal sources
	absent := &gatedSource{fakeSource: fakeSource{name: "modules", cmds: []string{"x"}}}
	sources := []source.Source{
		&fakeSource{name: "framework", cmds: []string{"list"}},
		absent,
		&fakeSource{name: "vendor", cmds: []string{"acme:sync"}},
	}

	// When: aggregating
	agg := New(WithLogger(quietLogger()))
	reg, err := agg.Aggregate(context.Background(), sources)

	// Then: no error, the absent source contributed nothing and was not listed
	require.NoError(t, err)
	assert.Equal(t, []string{"list", "acme:sync"}, reg.Names())
	assert.Zero(t, absent.calls)
	assert.Equal(t, OutcomeSkipped, agg.Report()[1].Outcome)
}

func TestAggregate_GateErrorIsAFailure(t *testing.T) {
	// Given: a gated source whose availability cannot be resolved
	broken := &gatedSource{fakeSource: fakeSource{name: "modules"}, gateErr: errors.New("bad env.json")}
	after := &fakeSource{name: "vendor", cmds: []string{"v"}}

	// When: aggregating
	reg, err := New(WithLogger(quietLogger())).Aggregate(context.Background(),
		[]source.Source{&fakeSource{name: "framework", cmds: []string{"list"}}, broken, after})

	// Then: the gate failure is the deferred error and aggregation halted
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSourceUnavailable, apperrors.GetCode(err))
	assert.Equal(t, []string{"list"}, reg.Names())
	assert.Zero(t, after.calls)
}

func TestAggregate_PartialResultsFromFailingSourceAreKept(t *testing.T) {
	// Given: a source that produced one command before failing
	partial := &fakeSource{name: "vendor", cmds: []string{"acme:sync"}, err: errors.New("provider 2 broke")}

	// When: aggregating
	reg, err := New(WithLogger(quietLogger())).Aggregate(context.Background(), []source.Source{partial})

	// Then: the produced command is registered and the error deferred
	require.Error(t, err)
	assert.Equal(t, []string{"acme:sync"}, reg.Names())
}

func TestAggregate_PanicIsCaptured(t *testing.T) {
	// Given: a source that panics
	s1 := &fakeSource{name: "framework", cmds: []string{"list"}}
	bad := &fakeSource{name: "vendor", panic: true}

	// When: aggregating
	var reg *command.Registry
	var err error
	require.NotPanics(t, func() {
		reg, err = New(WithLogger(quietLogger())).Aggregate(context.Background(), []source.Source{s1, bad})
	})

	// Then: the panic became the deferred error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source exploded")
	assert.Equal(t, []string{"list"}, reg.Names())
}

func TestAggregate_ContinuePolicyKeepsFirstError(t *testing.T) {
	// Given: two failing sources and a healthy one under the continue policy
	s1 := &fakeSource{name: "one", err: errors.New("first failure")}
	s2 := &fakeSource{name: "two", cmds: []string{"b"}}
	s3 := &fakeSource{name: "three", err: errors.New("second failure")}

	// When: aggregating
	agg := New(WithPolicy(ContinueOnFailure), WithLogger(quietLogger()))
	reg, err := agg.Aggregate(context.Background(), []source.Source{s1, s2, s3})

	// Then: every source was tried and only the first failure is reported
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first failure")
	assert.NotContains(t, err.Error(), "second failure")
	assert.Equal(t, []string{"b"}, reg.Names())
	assert.Equal(t, 1, s3.calls)
}

func TestAggregate_UnknownSourceErrorNotRewrapped(t *testing.T) {
	cat := source.NewCatalog()

	_, err := New(WithLogger(quietLogger())).Aggregate(context.Background(), cat.Resolve([]string{"ghost"}))

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnknownSource, apperrors.GetCode(err))
}

func TestAggregate_NoSources(t *testing.T) {
	reg, err := New().Aggregate(context.Background(), nil)

	require.NoError(t, err)
	require.NotNil(t, reg)
	assert.Zero(t, reg.Len())
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", HaltOnFailure, false},
		{"halt", HaltOnFailure, false},
		{"continue", ContinueOnFailure, false},
		{"Continue", ContinueOnFailure, false},
		{"retry", HaltOnFailure, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.in != "" {
				assert.Equal(t, strings.ToLower(tt.in), got.String())
			}
		})
	}
}
