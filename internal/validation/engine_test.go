package validation

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"anoa.com/folio/pkg/apperror"
	"anoa.com/folio/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsernames struct {
	taken map[string]bool
	calls int
	err   error
}

func (f *fakeUsernames) available(_ context.Context, candidate string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return !f.taken[candidate], nil
}

func newTestEngine(store *fakeUsernames) *Engine {
	account := &Schema{
		Name: "account",
		Fields: []Field{
			{Name: "username", Rules: "min=4,max=15,username_chars,not_numeric,not_reserved"},
			{Name: "website", Optional: true, Rules: validator.LinkRules},
		},
		Verifiers: []Verifier{
			UniqueIfChanged("username", "This username is already taken", store.available),
		},
	}
	experience := &Schema{
		Name: "experience",
		Fields: []Field{
			{Name: "from", Rules: "max=20"},
			{Name: "to", Rules: "max=20"},
			{Name: "title", Rules: "max=100"},
		},
		Refinements: []Refinement{
			DateOrder("from", "to", "End must not be before start", true),
		},
	}
	certification := &Schema{
		Name: "certification",
		Fields: []Field{
			{Name: "issued"},
			{Name: "expires"},
		},
		Refinements: []Refinement{
			DateOrder("issued", "expires", "Expiry must not be before issue", false, ExpirySentinels...),
		},
	}
	return NewEngine(validator.New(), account, experience, certification)
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *apperror.ValidationError
	require.True(t, errors.As(err, &ve), "expected validation error, got %v", err)
	return ve.Fields
}

func TestValidateReportsEveryFailingField(t *testing.T) {
	e := newTestEngine(&fakeUsernames{})

	_, err := e.Validate(context.Background(), "account", url.Values{
		"username": {"abc"},
		"website":  {"not-a-url"},
	}, ModeClient)

	fields := fieldErrors(t, err)
	assert.Equal(t, "Must be at least 4 characters", fields["username"])
	assert.Equal(t, "Must be a valid URL", fields["website"])
}

func TestValidateURLField(t *testing.T) {
	e := newTestEngine(&fakeUsernames{})
	ctx := context.Background()

	data, err := e.Validate(ctx, "account", url.Values{"username": {"valid_1"}, "website": {""}}, ModeClient)
	require.NoError(t, err)
	assert.Nil(t, data.String("website"))

	data, err = e.Validate(ctx, "account", url.Values{"username": {"valid_1"}, "website": {"https://example.com"}}, ModeClient)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", data.Value("website"))
}

func TestValidateDateOrder(t *testing.T) {
	e := newTestEngine(&fakeUsernames{})
	ctx := context.Background()

	tests := []struct {
		name    string
		schema  string
		input   url.Values
		wantErr string
		path    string
	}{
		{name: "to before from", schema: "experience", input: url.Values{"from": {"2020"}, "to": {"2019"}, "title": {"Engineer"}}, wantErr: "End must not be before start", path: "to"},
		{name: "same year", schema: "experience", input: url.Values{"from": {"2020"}, "to": {"2020"}, "title": {"Engineer"}}},
		{name: "open ended", schema: "experience", input: url.Values{"from": {"2020"}, "to": {"Present"}, "title": {"Engineer"}}},
		{name: "unparseable start", schema: "experience", input: url.Values{"from": {"someday"}, "to": {"2020"}, "title": {"Engineer"}}, wantErr: "End must not be before start", path: "to"},
		{name: "unparseable start open end", schema: "experience", input: url.Values{"from": {"someday"}, "to": {"Present"}, "title": {"Engineer"}}, wantErr: "End must not be before start", path: "to"},
		{name: "expires before issued", schema: "certification", input: url.Values{"issued": {"2020"}, "expires": {"2019"}}, wantErr: "Expiry must not be before issue", path: "expires"},
		{name: "ongoing sentinel", schema: "certification", input: url.Values{"issued": {"2020"}, "expires": {"Ongoing"}}},
		{name: "does not expire sentinel", schema: "certification", input: url.Values{"issued": {"2030"}, "expires": {"Does not expire"}}},
		{name: "unparseable expiry", schema: "certification", input: url.Values{"issued": {"2020"}, "expires": {"soon"}}, wantErr: "Expiry must not be before issue", path: "expires"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Validate(ctx, tt.schema, tt.input, ModeClient)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			fields := fieldErrors(t, err)
			assert.Equal(t, tt.wantErr, fields[tt.path])
			assert.Len(t, fields, 1)
		})
	}
}

func TestRefinementSkippedWhenDependencyFails(t *testing.T) {
	e := newTestEngine(&fakeUsernames{})

	_, err := e.Validate(context.Background(), "experience", url.Values{"to": {"2019"}, "title": {"Engineer"}}, ModeClient)

	fields := fieldErrors(t, err)
	assert.Equal(t, map[string]string{"from": "Required"}, fields)
}

func TestClientModeNeverCallsStore(t *testing.T) {
	store := &fakeUsernames{taken: map[string]bool{"taken": true}}
	e := newTestEngine(store)

	_, err := e.Validate(context.Background(), "account", url.Values{"username": {"taken"}}, ModeClient)

	assert.NoError(t, err)
	assert.Zero(t, store.calls)
}

func TestServerModeUniqueness(t *testing.T) {
	store := &fakeUsernames{taken: map[string]bool{"taken": true}}
	e := newTestEngine(store)
	ctx := context.Background()

	_, err := e.Validate(ctx, "account", url.Values{"username": {"taken"}}, ModeServer)
	assert.Equal(t, "This username is already taken", fieldErrors(t, err)["username"])

	current := FromStrings(map[string]*string{"username": ptr("taken")})
	store.calls = 0
	_, err = e.Validate(ctx, "account", url.Values{"username": {"taken"}}, ModeServer, WithCurrent(current))
	assert.NoError(t, err)
	assert.Zero(t, store.calls, "unchanged value must not hit the store")

	_, err = e.Validate(ctx, "account", url.Values{"username": {"fresh_one"}}, ModeServer, WithCurrent(current))
	assert.NoError(t, err)
	assert.Equal(t, 1, store.calls)
}

func TestServerModeSkipsVerifierOnSyncFailure(t *testing.T) {
	store := &fakeUsernames{}
	e := newTestEngine(store)

	_, err := e.Validate(context.Background(), "account", url.Values{"username": {"1234"}}, ModeServer)

	assert.Equal(t, "Cannot contain only numbers", fieldErrors(t, err)["username"])
	assert.Zero(t, store.calls)
}

func TestServerModePropagatesStoreErrors(t *testing.T) {
	boom := errors.New("connection refused")
	e := newTestEngine(&fakeUsernames{err: boom})

	_, err := e.Validate(context.Background(), "account", url.Values{"username": {"valid_1"}}, ModeServer)

	assert.ErrorIs(t, err, boom)
	var ve *apperror.ValidationError
	assert.False(t, errors.As(err, &ve))
}

func TestClientAndServerAgreeOnSyncRules(t *testing.T) {
	e := newTestEngine(&fakeUsernames{})
	ctx := context.Background()

	inputs := []url.Values{
		{"username": {"abc"}},
		{"username": {"valid_1"}},
		{"username": {"1234"}},
		{"username": {"login"}},
		{"username": {"Admin_1"}},
		{"username": {"valid_1"}, "website": {"ftp//broken"}},
	}

	for _, in := range inputs {
		_, clientErr := e.Validate(ctx, "account", in, ModeClient)
		_, serverErr := e.Validate(ctx, "account", in, ModeServer)
		assert.Equal(t, clientErr == nil, serverErr == nil, "input %v", in)
	}
}

func TestUnknownSchema(t *testing.T) {
	e := newTestEngine(&fakeUsernames{})
	_, err := e.Validate(context.Background(), "nope", url.Values{}, ModeClient)
	assert.Error(t, err)
}

func ptr(s string) *string { return &s }
