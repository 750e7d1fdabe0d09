package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundMessages(t *testing.T) {
	tests := []struct {
		err  *NotFoundError
		want string
	}{
		{&NotFoundError{Kind: NotFoundCommand, Name: "Foo"}, "E492: Not an editor command: Foo"},
		{&NotFoundError{Kind: NotFoundMark, Name: "a"}, "E20: Mark not set"},
		{&NotFoundError{Kind: NotFoundPattern, Name: "xyz"}, "E486: Pattern not found: xyz"},
		{&NotFoundError{Kind: NotFoundMapping, Name: "Q"}, "E31: No such mapping"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestUsageErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("running: %w", NewUsageError("delete", ErrArgumentForbidden))
	assert.ErrorIs(t, err, ErrArgumentForbidden)
	var ue *UsageError
	assert.ErrorAs(t, err, &ue)
	assert.Equal(t, "delete", ue.Command)
}

func TestUserVisible(t *testing.T) {
	assert.False(t, IsUserVisible(nil))
	assert.False(t, IsUserVisible(fmt.Errorf("w: %w", ErrMotionFailed)))
	assert.True(t, IsMotionFailure(fmt.Errorf("w: %w", ErrMotionFailed)))
	assert.True(t, IsUserVisible(ErrReadOnly))
}
