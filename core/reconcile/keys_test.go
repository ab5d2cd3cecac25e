package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_String(t *testing.T) {
	assert.Equal(t, "W1", Key{"W1"}.String())
	assert.Equal(t, "R1:2:7", Key{"R1", 2, 7}.String())
	assert.True(t, Key{"R1", 2, 7}.Equal(Key{"R1", "2", "7"}))
	assert.False(t, Key{"R1", 2}.Equal(Key{"R1", 2, 7}))
}

// TestParseKey tests parsing of simple and composite owner keys.
func TestParseKey(t *testing.T) {
	tests := []struct {
		name    string
		kind    *Kind
		raw     string
		want    Key
		wantErr error
	}{
		{name: "simple", kind: workToProducts, raw: "W1", want: Key{"W1"}},
		{name: "composite", kind: trackToWorks, raw: "R1:1:12", want: Key{"R1", 1, 12}},
		{name: "too few components", kind: trackToWorks, raw: "R1:1", wantErr: ErrKeyShape},
		{name: "too many components", kind: workToProducts, raw: "W1:2", wantErr: ErrKeyShape},
		{name: "non numeric component", kind: trackToWorks, raw: "R1:a:2", wantErr: ErrKeyShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKey(tt.kind, tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestOwnerRef_Resolve tests resolved and pending owner references.
func TestOwnerRef_Resolve(t *testing.T) {
	resolved := ResolvedOwner(Key{"W1"})
	assert.False(t, resolved.IsPending())
	key, err := resolved.Resolve("ignored")
	require.NoError(t, err)
	assert.Equal(t, Key{"W1"}, key)

	pending := PendingOwner(1, 4)
	assert.True(t, pending.IsPending())
	assert.Equal(t, "pending(1:4)", pending.String())

	key, err = pending.Resolve("R9")
	require.NoError(t, err)
	assert.Equal(t, Key{"R9", 1, 4}, key)

	_, err = pending.Resolve(nil)
	assert.ErrorIs(t, err, ErrUnboundOwner)
}

func TestKind_NormalizeKey(t *testing.T) {
	key, err := trackToWorks.NormalizeKey(Key{"R1", "2", int64(3)})
	require.NoError(t, err)
	assert.Equal(t, Key{"R1", 2, 3}, key)

	_, err = trackToWorks.NormalizeKey(Key{"R1"})
	assert.ErrorIs(t, err, ErrKeyShape)
}

// TestKind_Validate tests descriptor validation.
func TestKind_Validate(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		wantErr bool
	}{
		{name: "valid", kind: *workToProducts},
		{name: "missing name", kind: Kind{Table: "t", OwnerColumns: []Column{{Name: "a"}}, ChildColumn: "b"}, wantErr: true},
		{name: "missing table", kind: Kind{Name: "k", OwnerColumns: []Column{{Name: "a"}}, ChildColumn: "b"}, wantErr: true},
		{name: "missing owner columns", kind: Kind{Name: "k", Table: "t", ChildColumn: "b"}, wantErr: true},
		{name: "missing child column", kind: Kind{Name: "k", Table: "t", OwnerColumns: []Column{{Name: "a"}}}, wantErr: true},
		{
			name:    "cross referencing without child table",
			kind:    Kind{Name: "k", Table: "t", OwnerColumns: []Column{{Name: "a"}}, ChildColumn: "b", CrossReferencing: true},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.kind.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKind)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKind_Columns(t *testing.T) {
	assert.Equal(t, []string{"work_id", "genre_id", "order_index"}, workGenres.Columns())
	assert.Equal(t,
		[]string{"release_id", "media_number", "track_number", "work_id", "order_index", "name", "description", "reference_order"},
		trackToWorks.Columns(),
	)
}

func TestRegistry(t *testing.T) {
	reg, err := NewRegistry(workToProducts, workGenres)
	require.NoError(t, err)

	k, err := reg.Get("work_genres")
	require.NoError(t, err)
	assert.Same(t, workGenres, k)
	assert.Len(t, reg.All(), 2)

	_, err = reg.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = NewRegistry(workGenres, workGenres)
	assert.ErrorIs(t, err, ErrInvalidKind)
}
