package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeForm_SubmitPassesRawValue(t *testing.T) {
	var got []string
	submitted := TimeForm{Time: "14:30"}.Submit(func(v string) { got = append(got, v) })

	assert.True(t, submitted)
	assert.Equal(t, []string{"14:30"}, got)
}

func TestTimeForm_EmptyNeverSubmits(t *testing.T) {
	called := false
	submitted := TimeForm{}.Submit(func(string) { called = true })

	assert.False(t, submitted)
	assert.False(t, called)
}
