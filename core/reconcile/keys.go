package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"media-catalog/core/utils"
)

// KeySeparator joins the components of a composite owner key in its string form.
const KeySeparator = ":"

// Key identifies an owner. Components follow the order of Kind.OwnerColumns,
// e.g. {releaseID} or {releaseID, mediaNumber, trackNumber}.
type Key []any

// String renders the key as separator-joined components.
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, v := range k {
		parts[i] = utils.ToString(v)
	}
	return strings.Join(parts, KeySeparator)
}

// Equal reports whether both keys render to the same components.
func (k Key) Equal(other Key) bool {
	return len(k) == len(other) && k.String() == other.String()
}

// ParseKey parses the string form of an owner key for the given kind.
func ParseKey(kind *Kind, raw string) (Key, error) {
	parts := strings.Split(raw, KeySeparator)
	if len(parts) != len(kind.OwnerColumns) {
		return nil, fmt.Errorf("%w: %s expects %d components, got %d", ErrKeyShape, kind.Name, len(kind.OwnerColumns), len(parts))
	}

	key := make(Key, len(parts))
	for i, col := range kind.OwnerColumns {
		if !col.Numeric {
			key[i] = parts[i]
			continue
		}
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %s component %q is not numeric", ErrKeyShape, col.Name, parts[i])
		}
		key[i] = n
	}
	return key, nil
}

// OwnerRef is an owner reference carried by a write request. It is either resolved
// to a concrete key or pending, in which case it binds to the identifier generated
// by the enclosing session (see Session.Bind).
type OwnerRef struct {
	pending bool
	key     Key
}

// ResolvedOwner references an existing owner.
func ResolvedOwner(key Key) OwnerRef {
	return OwnerRef{key: key}
}

// PendingOwner references an owner whose root identifier is generated by the current
// transaction. The suffix holds the remaining key components of composite owners,
// e.g. PendingOwner(mediaNumber, trackNumber) for a track of a new release.
func PendingOwner(suffix ...any) OwnerRef {
	return OwnerRef{pending: true, key: Key(suffix)}
}

// IsPending reports whether the reference still waits for a generated identifier.
func (r OwnerRef) IsPending() bool {
	return r.pending
}

// Resolve returns the concrete key, substituting generated for a pending root.
func (r OwnerRef) Resolve(generated any) (Key, error) {
	if !r.pending {
		return r.key, nil
	}
	if generated == nil {
		return nil, ErrUnboundOwner
	}
	key := make(Key, 0, len(r.key)+1)
	key = append(key, generated)
	return append(key, r.key...), nil
}

func (r OwnerRef) String() string {
	if r.pending {
		return "pending(" + r.key.String() + ")"
	}
	return r.key.String()
}
